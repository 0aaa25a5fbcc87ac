package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormulaArgs(t *testing.T) {
	all := []string{"--prefix", "--keyring", "--skip-test", "--platform"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    formulaArgs
		wantErr bool
	}{
		{name: "empty", args: nil, allowed: all, want: formulaArgs{}},
		{name: "formula", args: []string{"spkdl"}, allowed: all, want: formulaArgs{ref: "spkdl"}},
		{
			name:    "all options",
			args:    []string{"--prefix", "/opt/tap", "--keyring=keys.asc", "--skip-test", "./tool.lua"},
			allowed: all,
			want:    formulaArgs{ref: "./tool.lua", prefix: "/opt/tap", keyring: "keys.asc", skipTest: true},
		},
		{
			name:    "platform",
			args:    []string{"--platform", "darwin/arm64"},
			allowed: all,
			want:    formulaArgs{platform: "darwin/arm64"},
		},
		{name: "help", args: []string{"-h"}, allowed: nil, want: formulaArgs{help: true}},
		{name: "option not allowed", args: []string{"--skip-test"}, allowed: []string{"--prefix"}, wantErr: true},
		{name: "value missing", args: []string{"--prefix"}, allowed: all, wantErr: true},
		{name: "two formulae", args: []string{"a", "b"}, allowed: all, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormulaArgs("install", tt.args, tt.allowed...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseFormulaArgs(%v) succeeded, want error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseFormulaArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	a, _, env := newTestApp(t, nil)

	if err := a.applyPrefix(""); err != nil || a.cfg.Prefix != env.Prefix {
		t.Fatalf("empty prefix changed config: %v %s", err, a.cfg.Prefix)
	}

	other := filepath.Join(t.TempDir(), "other")
	if err := a.applyPrefix(other); err != nil {
		t.Fatal(err)
	}
	if a.cfg.BinDir() != filepath.Join(other, "bin") {
		t.Errorf("BinDir() = %s", a.cfg.BinDir())
	}

	if err := a.applyPrefix("relative/prefix"); err == nil {
		t.Error("expected error for relative prefix")
	}
}

func TestLoadFormulaWarnsAboutSecrets(t *testing.T) {
	a, out, _ := newTestApp(t, nil)

	path := filepath.Join(t.TempDir(), "leaky.lua")
	src := strings.Replace(testFormula("https://github.com/acme/tools/releases/download/v1.0/tool.tar.gz", strings.Repeat("a", 64)),
		`license = "MIT",`, `license = "MIT", token = "abcdefghijklmnopqrstuvwxyz",`, 1)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := a.loadFormula(context.Background(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Potential credentials found in formula") {
		t.Errorf("no secret warning in output: %q", out.String())
	}
	if strings.Contains(out.String(), "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("secret echoed to output: %q", out.String())
	}
}

func TestLoadFormulaParseError(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte("formula = {"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := a.loadFormula(context.Background(), path)
	if err == nil || !strings.HasPrefix(err.Error(), "Lua syntax error") {
		t.Fatalf("error = %v, want Lua syntax error", err)
	}
}
