package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "pytree").
		WithSynopsis("pytree [opts] command [opts]").
		WithDescription("pytree flattens nested documents into leaves and tree specs.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pytreeMain(cfg, cc, args)
		}).
		WithSubs(
			FlattenCommand(cfg),
			SpecCommand(cfg),
			DiffCommand(cfg))
}

func pytreeMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func FlattenCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FlattenConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("flatten").
		WithAliases("f", "fl").
		WithSynopsis("flatten [-p] [-leafif expr] [files]").
		WithDescription("flatten documents into leaves and a tree spec").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return flatten(cfg, cc, args)
		})
	cfg.Flatten = cmd
	return cmd
}

func SpecCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SpecConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("spec").
		WithAliases("s", "sp").
		WithSynopsis("spec [files]").
		WithDescription("print the tree spec of documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return spec(cfg, cc, args)
		})
	cfg.Spec = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithSynopsis("diff a b").
		WithDescription("diff the tree specs of two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
