package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
	"github.com/xtatsux/homebrew-spkdl/internal/formula"
	"github.com/xtatsux/homebrew-spkdl/internal/github"
	"github.com/xtatsux/homebrew-spkdl/internal/platform"
)

const (
	archiveURL   = "https://github.com/xtatsux/spkdl/releases/download/v0.1.0/spkdl_Linux_x86_64.tar.gz"
	signatureURL = "https://github.com/xtatsux/spkdl/releases/download/v0.1.0/spkdl_Linux_x86_64.tar.gz.sig"
	spkdlScript  = "#!/bin/sh\necho \"spkdl version 0.1.0\"\n"
)

// fakeFetcher serves fixed bytes per URL.
type fakeFetcher struct {
	mu       sync.Mutex
	files    map[string][]byte
	err      error
	requests []github.DownloadRequest
}

func (f *fakeFetcher) Fetch(ctx context.Context, req github.DownloadRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	data, ok := f.files[req.URL]
	if !ok {
		return github.ErrAssetNotFound
	}
	if err := os.MkdirAll(filepath.Dir(req.Destination), 0755); err != nil {
		return err
	}
	return os.WriteFile(req.Destination, data, 0644)
}

type installFixture struct {
	cfg     *config.Config
	fetcher *fakeFetcher
	formula *formula.Formula
	archive []byte
}

func newInstallFixture(t *testing.T) *installFixture {
	t.Helper()

	dir := t.TempDir()
	path := writeTarGz(t, dir, "spkdl.tar.gz", []tarEntry{
		{name: "LICENSE", body: "MIT"},
		{name: "spkdl", body: spkdlScript, mode: 0755},
	})
	archive, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return &installFixture{
		cfg: &config.Config{
			Prefix:  filepath.Join(dir, "prefix"),
			TempDir: t.TempDir(),
		},
		fetcher: &fakeFetcher{files: map[string][]byte{archiveURL: archive}},
		archive: archive,
		formula: &formula.Formula{
			Name:     "spkdl",
			Version:  "0.1.0",
			Strategy: github.StrategyRelease,
			Resources: []formula.Resource{
				{OS: "darwin", Arch: "arm64", URL: strings.Replace(archiveURL, "Linux_x86_64", "Darwin_arm64", 1), SHA256: strings.Repeat("0", 64)},
				{OS: "linux", Arch: "amd64", URL: archiveURL, SHA256: sha256Hex(archive)},
			},
			Install: formula.Install{Bin: []string{"spkdl"}},
			Test:    formula.Test{Args: []string{"--version"}, Expect: "spkdl version"},
		},
	}
}

func (fx *installFixture) installer(opts ...Option) *Installer {
	detector := platform.StaticDetector(&platform.Info{OS: "linux", Arch: "amd64", KernelArch: "x86_64"})
	return NewInstaller(fx.cfg, fx.fetcher, detector, opts...)
}

func TestInstall(t *testing.T) {
	fx := newInstallFixture(t)
	skipOnWindows(t)

	result, err := fx.installer().Install(context.Background(), fx.formula)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	binPath := filepath.Join(fx.cfg.Prefix, "bin", "spkdl")
	if len(result.Binaries) != 1 || result.Binaries[0] != binPath {
		t.Errorf("Binaries = %v, want [%s]", result.Binaries, binPath)
	}
	if !IsInstalled(binPath) {
		t.Errorf("%s is not an executable file", binPath)
	}
	if result.Platform != "linux/amd64" || result.URL != archiveURL {
		t.Errorf("result = %+v", result)
	}
	if len(result.Verified) != 1 || result.Verified[0] != VerificationSHA256 {
		t.Errorf("Verified = %v, want [SHA256]", result.Verified)
	}
	if result.TestOutput != "spkdl version 0.1.0" {
		t.Errorf("TestOutput = %q", result.TestOutput)
	}

	if len(fx.fetcher.requests) != 1 {
		t.Fatalf("fetch requests = %d, want 1", len(fx.fetcher.requests))
	}
	req := fx.fetcher.requests[0]
	if req.Strategy != github.StrategyRelease || req.Name != "spkdl" || req.Version != "0.1.0" {
		t.Errorf("request = %+v", req)
	}
	if !strings.HasPrefix(req.Destination, fx.cfg.TempDir) {
		t.Errorf("download staged outside TempDir: %s", req.Destination)
	}

	entries, _ := os.ReadDir(fx.cfg.TempDir)
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
	if _, err := os.Stat(filepath.Join(fx.cfg.Prefix, "var", "tap", lockFileName)); !os.IsNotExist(err) {
		t.Errorf("lock not released")
	}
}

func TestInstallChecksumMismatch(t *testing.T) {
	fx := newInstallFixture(t)
	fx.formula.Resources[1].SHA256 = strings.Repeat("f", 64)

	_, err := fx.installer(WithSkipTest(true)).Install(context.Background(), fx.formula)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("error = %v, want ErrChecksumMismatch", err)
	}
	if _, statErr := os.Stat(filepath.Join(fx.cfg.Prefix, "bin")); !os.IsNotExist(statErr) {
		t.Errorf("bin directory written despite checksum failure")
	}
}

func TestInstallNoResourceForPlatform(t *testing.T) {
	fx := newInstallFixture(t)
	fx.formula.Resources = fx.formula.Resources[:1]

	_, err := fx.installer().Install(context.Background(), fx.formula)
	if !errors.Is(err, formula.ErrNoResource) {
		t.Fatalf("error = %v, want ErrNoResource", err)
	}
	if len(fx.fetcher.requests) != 0 {
		t.Errorf("fetched without a matching resource")
	}
}

func TestInstallFetchError(t *testing.T) {
	fx := newInstallFixture(t)
	fx.fetcher.err = github.ErrMissingToken

	_, err := fx.installer().Install(context.Background(), fx.formula)
	if !errors.Is(err, github.ErrMissingToken) {
		t.Fatalf("error = %v, want ErrMissingToken", err)
	}
}

func TestInstallLocked(t *testing.T) {
	fx := newInstallFixture(t)
	inst := fx.installer()

	lock, err := AcquireLock(inst.LockDir())
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	if _, err := inst.Install(context.Background(), fx.formula); !errors.Is(err, ErrLockExists) {
		t.Fatalf("error = %v, want ErrLockExists", err)
	}
}

func TestInstallMissingBinary(t *testing.T) {
	fx := newInstallFixture(t)
	fx.formula.Install.Bin = []string{"spkdl", "spkdl-helper"}

	_, err := fx.installer(WithSkipTest(true)).Install(context.Background(), fx.formula)
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("error = %v, want ErrBinaryNotFound", err)
	}
}

func TestInstallSmokeTestFails(t *testing.T) {
	fx := newInstallFixture(t)
	skipOnWindows(t)
	fx.formula.Test.Expect = "spkdl version 2"

	_, err := fx.installer().Install(context.Background(), fx.formula)
	if !errors.Is(err, ErrTestFailed) {
		t.Fatalf("error = %v, want ErrTestFailed", err)
	}

	// Skipping the test installs the same formula.
	result, err := fx.installer(WithSkipTest(true)).Install(context.Background(), fx.formula)
	if err != nil {
		t.Fatalf("unexpected error with test skipped: %v", err)
	}
	if result.TestOutput != "" {
		t.Errorf("TestOutput = %q, want empty", result.TestOutput)
	}
}

func TestInstallSignature(t *testing.T) {
	fx := newInstallFixture(t)
	dir := t.TempDir()

	signer, keyring := testKey(t, dir, true)
	archivePath := filepath.Join(dir, "spkdl.tar.gz")
	if err := os.WriteFile(archivePath, fx.archive, 0644); err != nil {
		t.Fatal(err)
	}
	sig, err := os.ReadFile(signFile(t, signer, archivePath, true))
	if err != nil {
		t.Fatal(err)
	}
	fx.fetcher.files[signatureURL] = sig
	fx.formula.Resources[1].Signature = signatureURL

	t.Run("verified with keyring", func(t *testing.T) {
		result, err := fx.installer(WithSkipTest(true), WithKeyring(keyring)).Install(context.Background(), fx.formula)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Verified) != 2 || result.Verified[1] != VerificationGPG {
			t.Errorf("Verified = %v, want [SHA256 GPG]", result.Verified)
		}
	})

	t.Run("skipped without keyring", func(t *testing.T) {
		result, err := fx.installer(WithSkipTest(true)).Install(context.Background(), fx.formula)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Verified) != 1 {
			t.Errorf("Verified = %v, want [SHA256]", result.Verified)
		}
	})

	t.Run("rejected with other key", func(t *testing.T) {
		_, otherKeyring := testKey(t, t.TempDir(), false)
		_, err := fx.installer(WithSkipTest(true), WithKeyring(otherKeyring)).Install(context.Background(), fx.formula)
		if !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("error = %v, want ErrSignatureInvalid", err)
		}
	})
}

func TestInstallerTest(t *testing.T) {
	fx := newInstallFixture(t)
	skipOnWindows(t)
	inst := fx.installer()

	if _, err := inst.Test(context.Background(), fx.formula); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("error before install = %v, want ErrNotInstalled", err)
	}

	if _, err := inst.Install(context.Background(), fx.formula); err != nil {
		t.Fatal(err)
	}
	output, err := inst.Test(context.Background(), fx.formula)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "spkdl version") {
		t.Errorf("output = %q", output)
	}
}

func TestVerificationMethodString(t *testing.T) {
	tests := map[VerificationMethod]string{
		VerificationNone:      "None",
		VerificationGPG:       "GPG",
		VerificationSHA256:    "SHA256",
		VerificationMethod(9): "Unknown",
	}
	for v, want := range tests {
		if got := v.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", v, got, want)
		}
	}
}
