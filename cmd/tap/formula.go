package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xtatsux/homebrew-spkdl/internal/formula"
)

// formulaArgs holds the options shared by info, install and test.
type formulaArgs struct {
	ref      string
	prefix   string
	keyring  string
	platform string
	skipTest bool
	help     bool
}

// parseFormulaArgs parses `tap <cmd> [options] [formula]`. allowed lists the
// value-taking options the command accepts; --help is always accepted.
func parseFormulaArgs(cmd string, args []string, allowed ...string) (formulaArgs, error) {
	var opts formulaArgs
	accepts := func(name string) bool {
		for _, a := range allowed {
			if a == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch {
		case arg == "--help" || arg == "-h":
			opts.help = true
		case arg == "--skip-test" && accepts("--skip-test"):
			opts.skipTest = true
		case (name == "--prefix" || name == "--keyring" || name == "--platform") && accepts(name):
			if !hasValue {
				if i+1 >= len(args) {
					return opts, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = args[i]
			}
			switch name {
			case "--prefix":
				opts.prefix = value
			case "--keyring":
				opts.keyring = value
			case "--platform":
				opts.platform = value
			}
		case len(arg) > 0 && arg[0] != '-':
			if opts.ref != "" {
				return opts, fmt.Errorf("only one formula may be given")
			}
			opts.ref = arg
		default:
			return opts, fmt.Errorf("unknown option: %s\nRun 'tap %s --help' for usage", arg, cmd)
		}
	}

	return opts, nil
}

// loadFormula resolves ref and warns about credentials written into a
// formula file.
func (a *app) loadFormula(ctx context.Context, ref string) (*formula.Formula, error) {
	if formula.IsPath(ref) {
		if data, err := os.ReadFile(ref); err == nil {
			if warning := formula.FormatSecretWarning(formula.DetectSecrets(string(data))); warning != "" {
				a.out.Warn("%s", strings.TrimRight(warning, "\n"))
			}
		}
	}

	f, err := a.parser().Load(ctx, ref)
	if err != nil {
		var parseErr *formula.ParseError
		if errors.As(err, &parseErr) {
			return nil, errors.New(formula.FormatError(err, a.cfg.Debug))
		}
		return nil, err
	}
	return f, nil
}

// applyPrefix overrides the configured prefix.
func (a *app) applyPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	cfg := *a.cfg
	cfg.Prefix = prefix
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = &cfg
	return nil
}
