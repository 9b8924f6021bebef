package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/go-pytree"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff takes exactly two files", cli.ErrUsage)
	}
	specs := make([]string, 2)
	for i, file := range args {
		var got string
		err := docFile(nil, file, func(_ io.Writer, tree any) error {
			_, spec, err := pytree.Flatten(tree, cfg.flattenOpts()...)
			if err != nil {
				return err
			}
			got = spec.String()
			return nil
		})
		if err != nil {
			return err
		}
		specs[i] = got
	}
	if specs[0] == specs[1] {
		return nil
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(specs[0], specs[1], false)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	useColor := cfg.useColor()
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			if useColor {
				fmt.Fprint(cc.Out, color.GreenString("%s", d.Text))
			} else {
				fmt.Fprintf(cc.Out, "{+%s+}", d.Text)
			}
		case diffpatch.DiffDelete:
			if useColor {
				fmt.Fprint(cc.Out, color.RedString("%s", d.Text))
			} else {
				fmt.Fprintf(cc.Out, "{-%s-}", d.Text)
			}
		default:
			fmt.Fprint(cc.Out, d.Text)
		}
	}
	fmt.Fprintln(cc.Out)
	return nil
}
