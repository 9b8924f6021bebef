package main

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/go-pytree"
)

type MainConfig struct {
	NoneLeaf bool   `cli:"name=noneleaf desc='treat null as a leaf'"`
	NS       string `cli:"name=ns desc='registry namespace for custom node types'"`
	Color    bool   `cli:"name=color desc='colorize output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) flattenOpts() []pytree.Option {
	opts := []pytree.Option{
		pytree.NoneIsLeaf(cfg.NoneLeaf),
	}
	if cfg.NS != "" {
		opts = append(opts, pytree.WithNamespace(cfg.NS))
	}
	return opts
}

func (cfg *MainConfig) useColor() bool {
	if cfg.Color {
		return true
	}
	return cfg.Out == "" && isatty.IsTerminal(os.Stdout.Fd())
}

type FlattenConfig struct {
	*MainConfig
	LeafIf string `cli:"name=leafif desc='expression forcing values to leaves (env: value, type)'"`
	Paths  bool   `cli:"name=p desc='print the path to each leaf'"`

	Flatten *cli.Command
}

// leafPredicate compiles the -leafif expression. The expression sees
// `value` (the subvalue) and `type` (its Go type string) and must
// produce a bool.
func (cfg *FlattenConfig) leafPredicate() (pytree.LeafPredicate, error) {
	if cfg.LeafIf == "" {
		return nil, nil
	}
	program, err := expr.Compile(cfg.LeafIf, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: bad -leafif expression: %w", cli.ErrUsage, err)
	}
	return func(v any) (bool, error) {
		out, err := expr.Run(program, map[string]any{
			"value": v,
			"type":  fmt.Sprintf("%T", v),
		})
		if err != nil {
			return false, fmt.Errorf("evaluating -leafif: %w", err)
		}
		b, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("-leafif expression produced %T, not bool", out)
		}
		return b, nil
	}, nil
}

type SpecConfig struct {
	*MainConfig

	Spec *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}
