package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/go-pytree"
)

func flatten(cfg *FlattenConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Flatten.Parse(cc, args)
	if err != nil {
		return err
	}
	pred, err := cfg.leafPredicate()
	if err != nil {
		return err
	}
	opts := cfg.flattenOpts()
	if pred != nil {
		opts = append(opts, pytree.WithLeafPredicate(pred))
	}
	return eachDoc(cc.Out, args, func(w io.Writer, tree any) error {
		if cfg.Paths {
			paths, leaves, spec, err := pytree.FlattenWithPaths(tree, opts...)
			if err != nil {
				return err
			}
			for i, p := range paths {
				fmt.Fprintf(w, "%s: %v\n", p, leaves[i])
			}
			fmt.Fprintf(w, "spec: %s\n", spec)
			return nil
		}
		leaves, spec, err := pytree.Flatten(tree, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "leaves: %v\n", leaves)
		fmt.Fprintf(w, "spec: %s\n", spec)
		return nil
	})
}

func spec(cfg *SpecConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Spec.Parse(cc, args)
	if err != nil {
		return err
	}
	opts := cfg.flattenOpts()
	return eachDoc(cc.Out, args, func(w io.Writer, tree any) error {
		_, spec, err := pytree.Flatten(tree, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", spec)
		return nil
	})
}

// eachDoc reads the files (stdin when none, or "-") and runs fn once
// per document. Documents are separated by "\n---\n" and decoded as
// YAML or JSON.
func eachDoc(w io.Writer, files []string, fn func(w io.Writer, tree any) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		if err := docFile(w, file, fn); err != nil {
			return err
		}
	}
	return nil
}

func docFile(w io.Writer, file string, fn func(w io.Writer, tree any) error) error {
	var (
		f   *os.File
		err error
	)
	if file != "-" {
		f, err = os.Open(file)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
	} else {
		f = os.Stdin
	}
	in, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", file, err)
	}
	docs := bytes.Split(in, []byte("\n---\n"))
	for i, doc := range docs {
		tree, err := decodeDoc(doc)
		if err != nil {
			return fmt.Errorf("error decoding document %d of %s: %w", i, file, err)
		}
		if err := fn(w, tree); err != nil {
			return fmt.Errorf("error processing document %d of %s: %w", i, file, err)
		}
	}
	return nil
}

func decodeDoc(doc []byte) (any, error) {
	var tree any
	if err := yaml.Unmarshal(doc, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
