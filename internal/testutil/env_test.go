package testutil_test

import (
	"os"
	"testing"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
	"github.com/xtatsux/homebrew-spkdl/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	t.Setenv(config.EnvGitHubToken, "leaked-from-outer-env")

	env := testutil.SetupTestEnv(t)

	if got := os.Getenv(config.EnvPrefix); got != env.Prefix {
		t.Errorf("%s = %q, want %q", config.EnvPrefix, got, env.Prefix)
	}
	if got := os.Getenv(config.EnvTemp); got != env.TempDir {
		t.Errorf("%s = %q, want %q", config.EnvTemp, got, env.TempDir)
	}
	if got := os.Getenv(config.EnvGitHubToken); got != "" {
		t.Errorf("%s not cleared: %q", config.EnvGitHubToken, got)
	}

	for _, dir := range []string{env.Prefix, env.TempDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestSetupTestEnvLoadsConfig(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	if cfg.Prefix != env.Prefix || cfg.TempDir != env.TempDir {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Token != "" || cfg.NoGitHubAPI || !cfg.NoColor {
		t.Errorf("unexpected values: token=%q noAPI=%v noColor=%v", cfg.Token, cfg.NoGitHubAPI, cfg.NoColor)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
}
