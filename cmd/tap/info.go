package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xtatsux/homebrew-spkdl/internal/platform"
)

// runInfo handles the `tap info` subcommand
func runInfo(args []string) error {
	opts, err := parseFormulaArgs("info", args, "--platform")
	if err != nil {
		return err
	}
	if opts.help {
		printInfoHelp()
		return nil
	}

	a, err := newProcessApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return a.info(ctx, opts)
}

func (a *app) info(ctx context.Context, opts formulaArgs) error {
	if opts.platform != "" {
		goos, goarch, ok := strings.Cut(opts.platform, "/")
		if !ok {
			return fmt.Errorf("invalid --platform %q: want os/arch", opts.platform)
		}
		info, err := platform.FromStrings(goos, goarch)
		if err != nil {
			return fmt.Errorf("invalid --platform: %w", err)
		}
		a.detector = platform.StaticDetector(info)
	}

	f, err := a.loadFormula(ctx, opts.ref)
	if err != nil {
		return err
	}

	info, err := a.detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	a.out.Title("%s %s", f.Name, f.Version)
	if f.Desc != "" {
		a.out.Field("desc", f.Desc)
	}
	if f.Homepage != "" {
		a.out.Field("homepage", f.Homepage)
	}
	if f.License != "" {
		a.out.Field("license", f.License)
	}
	a.out.Field("strategy", f.Strategy.String())
	a.out.Field("binaries", strings.Join(f.Install.Bin, ", "))
	a.out.Field("platforms", strings.Join(f.Platforms(), ", "))
	a.out.BlankLine()

	a.out.Info("Platform: %s", info)
	resource, err := f.ResourceFor(info)
	if err != nil {
		a.out.Fail("No build for this platform")
		return err
	}

	a.out.Success("%s", resource.Filename())
	a.out.Field("url", resource.URL)
	a.out.Field("sha256", resource.SHA256)
	if resource.Signature != "" {
		a.out.Field("signature", resource.Signature)
	}
	return nil
}

func printInfoHelp() {
	fmt.Println("Usage: tap info [options] [formula]")
	fmt.Println()
	fmt.Println("Show a formula and the download chosen for this platform.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --platform <os/arch>     Show the download for another platform (e.g. darwin/arm64)")
	fmt.Println("  -h, --help               Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tap info                 Show the spkdl formula")
	fmt.Println("  tap info ./tool.lua      Show a formula file")
}
