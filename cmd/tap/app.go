package main

import (
	"io"
	"os"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
	"github.com/xtatsux/homebrew-spkdl/internal/formula"
	"github.com/xtatsux/homebrew-spkdl/internal/platform"
	"github.com/xtatsux/homebrew-spkdl/internal/ui"
)

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   config.Logger
	out      *ui.Printer
	detector platform.Detector
}

// newApp loads the configuration through getenv. Log records go to stderr,
// user output to stdout.
func newApp(getenv func(string) string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadFromEnv(getenv)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   config.NewLogrusLogger(stderr, cfg.Debug),
		out:      ui.New(stdout, cfg.NoColor),
		detector: platform.NewDetector(),
	}, nil
}

func newProcessApp() (*app, error) {
	return newApp(os.Getenv, os.Stdout, os.Stderr)
}

func (a *app) parser() *formula.Parser {
	return formula.NewParser(a.detector)
}
