package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
	"github.com/xtatsux/homebrew-spkdl/internal/formula"
	"github.com/xtatsux/homebrew-spkdl/internal/github"
	"github.com/xtatsux/homebrew-spkdl/internal/platform"
)

// Fetcher downloads one file. *github.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, req github.DownloadRequest) error
}

// Installer installs formulae into the configured prefix.
type Installer struct {
	cfg      *config.Config
	fetcher  Fetcher
	detector platform.Detector
	keyring  string
	skipTest bool
	logger   config.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithKeyring sets the GPG keyring used for resources that declare a
// signature.
func WithKeyring(path string) Option {
	return func(i *Installer) {
		i.keyring = path
	}
}

// WithSkipTest disables the post-install smoke test.
func WithSkipTest(skip bool) Option {
	return func(i *Installer) {
		i.skipTest = skip
	}
}

// WithLogger sets the installer's logger.
func WithLogger(logger config.Logger) Option {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewInstaller creates an installer. A nil fetcher or detector is an error
// at Install time.
func NewInstaller(cfg *config.Config, fetcher Fetcher, detector platform.Detector, opts ...Option) *Installer {
	i := &Installer{
		cfg:      cfg.WithDefaults(),
		fetcher:  fetcher,
		detector: detector,
		logger:   config.NopLogger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// LockDir is where the prefix lock lives.
func (i *Installer) LockDir() string {
	return filepath.Join(i.cfg.Prefix, "var", "tap")
}

// Install fetches, verifies and installs f for the detected platform.
func (i *Installer) Install(ctx context.Context, f *formula.Formula) (*Result, error) {
	if f == nil {
		return nil, errors.New("formula is required")
	}
	if i.fetcher == nil || i.detector == nil {
		return nil, errors.New("installer requires a fetcher and a platform detector")
	}
	if i.cfg.Prefix == "" {
		return nil, fmt.Errorf("installation prefix is not set (%s)", config.EnvPrefix)
	}

	start := time.Now()
	logger := config.With(i.logger, "formula", f.Name, "version", f.Version)

	lock, err := AcquireLock(i.LockDir())
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	info, err := i.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}
	resource, err := f.ResourceFor(info)
	if err != nil {
		return nil, err
	}
	logger.Debug("selected resource", "platform", resource.OS+"/"+resource.Arch, "url", resource.URL)

	scratch, err := os.MkdirTemp(i.cfg.TempDir, "tap-install-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	archive := filepath.Join(scratch, resource.Filename())
	if err := i.fetcher.Fetch(ctx, github.DownloadRequest{
		URL:         resource.URL,
		Name:        f.Name,
		Version:     f.Version,
		Destination: archive,
		Strategy:    f.Strategy,
	}); err != nil {
		return nil, err
	}

	result := &Result{
		Name:     f.Name,
		Version:  f.Version,
		Platform: resource.OS + "/" + resource.Arch,
		URL:      resource.URL,
	}

	if err := VerifySHA256(archive, resource.SHA256); err != nil {
		return nil, err
	}
	result.Verified = append(result.Verified, VerificationSHA256)

	if resource.Signature != "" {
		verified, err := i.verifySignature(ctx, f, resource, archive, logger)
		if err != nil {
			return nil, err
		}
		if verified {
			result.Verified = append(result.Verified, VerificationGPG)
		}
	}

	binDir := i.cfg.BinDir()
	for _, bin := range f.Install.Bin {
		dest := filepath.Join(binDir, bin)
		if err := ExtractBinary(archive, dest, bin); err != nil {
			return nil, fmt.Errorf("install %s: %w", bin, err)
		}
		result.Binaries = append(result.Binaries, dest)
		logger.Debug("installed binary", "path", dest)
	}

	if !i.skipTest {
		output, err := RunTest(ctx, result.Binaries[0], f.Test)
		if err != nil {
			return nil, err
		}
		result.TestOutput = output
	}

	result.Duration = time.Since(start)
	logger.Info("installed", "platform", result.Platform, "duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// verifySignature fetches the detached signature for resource and checks it.
// Without a keyring the check is skipped and false is returned.
func (i *Installer) verifySignature(ctx context.Context, f *formula.Formula, resource *formula.Resource, archive string, logger config.Logger) (bool, error) {
	if i.keyring == "" {
		logger.Warn("skipping signature verification: no keyring configured", "signature", resource.Signature)
		return false, nil
	}

	sigPath := archive + ".sig"
	if err := i.fetcher.Fetch(ctx, github.DownloadRequest{
		URL:         resource.Signature,
		Name:        f.Name,
		Version:     f.Version,
		Destination: sigPath,
		Strategy:    f.Strategy,
	}); err != nil {
		return false, fmt.Errorf("fetch signature: %w", err)
	}

	if err := VerifySignature(archive, sigPath, i.keyring); err != nil {
		return false, err
	}
	return true, nil
}

// Test runs the smoke test of an installed formula.
func (i *Installer) Test(ctx context.Context, f *formula.Formula) (string, error) {
	if len(f.Install.Bin) == 0 {
		return "", errors.New("formula declares no binaries")
	}
	return RunTest(ctx, filepath.Join(i.cfg.BinDir(), f.Install.Bin[0]), f.Test)
}
