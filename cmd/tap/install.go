package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/xtatsux/homebrew-spkdl/internal/github"
	"github.com/xtatsux/homebrew-spkdl/internal/install"
)

// runInstall handles the `tap install` subcommand
func runInstall(args []string) error {
	opts, err := parseFormulaArgs("install", args, "--prefix", "--keyring", "--skip-test")
	if err != nil {
		return err
	}
	if opts.help {
		printInstallHelp()
		return nil
	}

	a, err := newProcessApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	return a.install(ctx, opts)
}

func (a *app) install(ctx context.Context, opts formulaArgs) error {
	if err := a.applyPrefix(opts.prefix); err != nil {
		return err
	}
	if opts.keyring != "" {
		if _, err := os.Stat(opts.keyring); err != nil {
			return fmt.Errorf("keyring: %w", err)
		}
	}

	f, err := a.loadFormula(ctx, opts.ref)
	if err != nil {
		return err
	}

	fetcher := github.NewFetcher(a.cfg, github.WithFetchLogger(a.logger))
	installer := install.NewInstaller(a.cfg, fetcher, a.detector,
		install.WithKeyring(opts.keyring),
		install.WithSkipTest(opts.skipTest),
		install.WithLogger(a.logger),
	)

	a.out.Info("Installing %s %s into %s", f.Name, f.Version, a.cfg.Prefix)
	result, err := installer.Install(ctx, f)
	if err != nil {
		a.out.Fail("Installation failed")
		return err
	}

	var verified []string
	for _, v := range result.Verified {
		verified = append(verified, v.String())
	}
	a.out.Success("Verified %s (%s)", path.Base(result.URL), strings.Join(verified, ", "))
	for _, bin := range result.Binaries {
		a.out.Success("Installed %s", bin)
	}
	if result.TestOutput != "" {
		a.out.Success("Test passed")
		a.out.Block(result.TestOutput)
	}
	a.out.Dim("%s %s for %s in %s", result.Name, result.Version, result.Platform, result.Duration.Round(time.Millisecond))
	return nil
}

func printInstallHelp() {
	fmt.Println("Usage: tap install [options] [formula]")
	fmt.Println()
	fmt.Println("Download the build of a formula for this platform, verify its checksum")
	fmt.Println("and install its binaries into <prefix>/bin.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --prefix <dir>           Installation prefix (default: $HOMEBREW_PREFIX or ~/.local)")
	fmt.Println("  --keyring <file>         GPG keyring for formulas that publish signatures")
	fmt.Println("  --skip-test              Do not run the formula test after installing")
	fmt.Println("  -h, --help               Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tap install              Install spkdl")
	fmt.Println("  tap install ./tool.lua   Install from a formula file")
}
