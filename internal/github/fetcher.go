package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xtatsux/homebrew-spkdl/internal/config"
)

const acceptOctetStream = "application/octet-stream"

// DownloadRequest describes one fetch. It is created by the caller and never
// modified by the fetcher.
type DownloadRequest struct {
	URL         string
	Name        string // opaque to the fetcher, used in log records
	Version     string // opaque to the fetcher, used in log records
	Destination string
	Strategy    Strategy
}

// Fetcher downloads files from private GitHub repositories and releases,
// authenticating every request with the configured token.
type Fetcher struct {
	token      string
	endpoints  Endpoints
	client     *Client
	downloader *Downloader
	logger     config.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClient replaces the API client built from the config.
func WithClient(c *Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithDownloader replaces the transfer layer built from the config.
func WithDownloader(d *Downloader) FetcherOption {
	return func(f *Fetcher) {
		f.downloader = d
	}
}

// WithFetchLogger sets the fetcher's logger. The API client built from the
// config shares it.
func WithFetchLogger(logger config.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg *config.Config, opts ...FetcherOption) *Fetcher {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg = cfg.WithDefaults()

	f := &Fetcher{
		token:     cfg.Token,
		endpoints: Endpoints{API: cfg.APIURL, Web: cfg.WebURL}.withDefaults(),
		logger:    config.NopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = NewClient(cfg, WithLogger(f.logger))
	}
	if f.downloader == nil {
		f.downloader = NewDownloader(cfg.Retries)
	}

	return f
}

// Fetch downloads req.URL into req.Destination.
//
// The URL is parsed with the pattern of req.Strategy (detected from the URL
// shape for StrategyAuto). The token must be set before any request is made.
// Repository fetches first probe the repository through the API; release
// fetches resolve the asset id through the API. Either way exactly one API
// call precedes exactly one transfer. Nothing is retried here.
func (f *Fetcher) Fetch(ctx context.Context, req DownloadRequest) error {
	start := time.Now()
	log := config.With(f.logger, "fetch_id", uuid.NewString())

	target, err := ParseTarget(req.Strategy, req.URL)
	if err != nil {
		return err
	}

	if f.token == "" {
		return newFetchError(ErrMissingToken,
			fmt.Sprintf("environment variable %s is required", config.EnvGitHubToken), nil)
	}

	if req.Destination == "" {
		return fmt.Errorf("destination path is required")
	}

	log.Debug("fetching", "name", req.Name, "version", req.Version, "strategy", target.Strategy, "repo", target.Slug())

	downloadURL, header, err := f.authorize(ctx, target)
	if err != nil {
		return err
	}

	log.Debug("downloading", "url", redactURL(downloadURL), "destination", req.Destination)

	if err := f.downloader.DownloadToFile(ctx, downloadURL, req.Destination, header); err != nil {
		return fmt.Errorf("download %s: %w", target.Slug(), err)
	}

	log.Info("fetched", "name", req.Name, "destination", req.Destination, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// DownloadURL returns the authorized URL and headers Fetch would use for
// target, performing the same single API call.
func (f *Fetcher) DownloadURL(ctx context.Context, target Target) (string, http.Header, error) {
	if f.token == "" {
		return "", nil, newFetchError(ErrMissingToken,
			fmt.Sprintf("environment variable %s is required", config.EnvGitHubToken), nil)
	}
	return f.authorize(ctx, target)
}

func (f *Fetcher) authorize(ctx context.Context, target Target) (string, http.Header, error) {
	switch target.Strategy {
	case StrategyRepository:
		if err := f.validateRepositoryAccess(ctx, target.Owner, target.Repo); err != nil {
			return "", nil, err
		}
		return f.endpoints.ContentDownloadURL(f.token, target), http.Header{}, nil

	case StrategyRelease:
		assetID, err := f.ResolveAssetID(ctx, target.Owner, target.Repo, target.Tag, target.Filename)
		if err != nil {
			return "", nil, err
		}
		// Without this header the API answers with the asset's JSON metadata.
		header := http.Header{}
		header.Set("Accept", acceptOctetStream)
		return f.endpoints.AssetDownloadURL(f.token, target, assetID), header, nil

	default:
		return "", nil, newFetchError(ErrInvalidURLPattern, fmt.Sprintf("unsupported download strategy %s", target.Strategy), nil)
	}
}

// validateRepositoryAccess probes owner/repo. Only a 404 is rewritten into
// ErrRepositoryAccessDenied; every other API failure is returned as is.
func (f *Fetcher) validateRepositoryAccess(ctx context.Context, owner, repo string) error {
	_, err := f.client.Call(ctx, f.endpoints.RepositoryURL(owner, repo))
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return newFetchError(ErrRepositoryAccessDenied, fmt.Sprintf(
			"%s can not access the repository: %s/%s\n"+
				"This token may not have permission to access the repository or the url of formula may be incorrect.",
			config.EnvGitHubToken, owner, repo), err)
	}
	return err
}
