// Package testutil provides utilities for testing the tap in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
)

// Env holds the directories SetupTestEnv created.
type Env struct {
	Prefix  string
	TempDir string
}

// SetupTestEnv points every HOMEBREW_* variable the tap reads at a fresh
// temporary tree, so tests never touch the user's prefix, token or GitHub.
//
// The token, API switch and endpoint variables are cleared; callers set what
// they need with t.Setenv afterwards. Cleanup is handled by t.TempDir.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Prefix:  filepath.Join(tmpDir, "prefix"),
		TempDir: filepath.Join(tmpDir, "tmp"),
	}

	t.Setenv(config.EnvPrefix, env.Prefix)
	t.Setenv(config.EnvTemp, env.TempDir)

	for _, name := range []string{
		config.EnvGitHubToken,
		config.EnvNoGitHubAPI,
		config.EnvAPITransport,
		config.EnvCurlPath,
		config.EnvCurlRetries,
		config.EnvDebug,
		config.EnvGitHubAPIURL,
		config.EnvGitHubWebURL,
	} {
		t.Setenv(name, "")
	}
	t.Setenv(config.EnvNoColor, "1")

	for _, dir := range []string{env.Prefix, env.TempDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}
