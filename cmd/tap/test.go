package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xtatsux/homebrew-spkdl/internal/install"
)

// runTest handles the `tap test` subcommand
func runTest(args []string) error {
	opts, err := parseFormulaArgs("test", args, "--prefix")
	if err != nil {
		return err
	}
	if opts.help {
		printTestHelp()
		return nil
	}

	a, err := newProcessApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return a.test(ctx, opts)
}

func (a *app) test(ctx context.Context, opts formulaArgs) error {
	if err := a.applyPrefix(opts.prefix); err != nil {
		return err
	}

	f, err := a.loadFormula(ctx, opts.ref)
	if err != nil {
		return err
	}

	installer := install.NewInstaller(a.cfg, nil, a.detector, install.WithLogger(a.logger))
	output, err := installer.Test(ctx, f)
	if err != nil {
		a.out.Fail("%s test failed", f.Name)
		return err
	}

	a.out.Success("%s test passed", f.Name)
	a.out.Block(output)
	return nil
}

func printTestHelp() {
	fmt.Println("Usage: tap test [options] [formula]")
	fmt.Println()
	fmt.Println("Run the test declared by an installed formula.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --prefix <dir>           Installation prefix (default: $HOMEBREW_PREFIX or ~/.local)")
	fmt.Println("  -h, --help               Show this help message")
}
