package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Token is the GitHub token. Empty means "not configured"; fetches fail
	// before touching the network.
	Token string

	// NoGitHubAPI turns every authorized API call into a no-op that returns an
	// empty JSON object.
	NoGitHubAPI bool

	// TempDir is the root for scratch files (staged request bodies, captured
	// response headers, in-flight downloads).
	TempDir string

	// Transport selects the API transport: TransportHTTP or TransportCurl.
	Transport string

	// CurlPath is the curl binary used by TransportCurl.
	CurlPath string

	// Retries is the number of extra attempts the download layer makes on a
	// failed transfer.
	Retries int

	// Prefix is the installation prefix; binaries land in Prefix/bin.
	Prefix string

	// APIURL and WebURL are the GitHub endpoints.
	APIURL string
	WebURL string

	Debug   bool
	NoColor bool
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFromEnv(os.Getenv)
}

// LoadFromEnv reads the configuration through getenv.
func LoadFromEnv(getenv func(string) string) (*Config, error) {
	if getenv == nil {
		return nil, fmt.Errorf("getenv function is required")
	}

	cfg := &Config{
		Token:       strings.TrimSpace(getenv(EnvGitHubToken)),
		NoGitHubAPI: getenv(EnvNoGitHubAPI) != "",
		TempDir:     getenv(EnvTemp),
		Transport:   strings.ToLower(strings.TrimSpace(getenv(EnvAPITransport))),
		CurlPath:    getenv(EnvCurlPath),
		Prefix:      getenv(EnvPrefix),
		APIURL:      strings.TrimRight(getenv(EnvGitHubAPIURL), "/"),
		WebURL:      strings.TrimRight(getenv(EnvGitHubWebURL), "/"),
		Debug:       isTruthy(getenv(EnvDebug)),
		NoColor:     getenv(EnvNoColor) != "",
	}

	if raw := strings.TrimSpace(getenv(EnvCurlRetries)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvCurlRetries, err)
		}
		cfg.Retries = n
	}

	if cfg.Prefix == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		cfg.Prefix = filepath.Join(home, defaultPrefixDir)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills unset fields. It is safe to call on a Config literal.
func (c *Config) applyDefaults() {
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Transport == "" {
		c.Transport = TransportHTTP
	}
	if c.CurlPath == "" {
		c.CurlPath = DefaultCurlPath
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.WebURL == "" {
		c.WebURL = DefaultWebURL
	}
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() *Config {
	c.applyDefaults()
	return &c
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportCurl:
	default:
		return fmt.Errorf("invalid %s %q: must be %q or %q", EnvAPITransport, c.Transport, TransportHTTP, TransportCurl)
	}

	if c.Retries < 0 || c.Retries > MaxCurlRetries {
		return fmt.Errorf("invalid %s %d: must be between 0 and %d", EnvCurlRetries, c.Retries, MaxCurlRetries)
	}

	if !filepath.IsAbs(c.Prefix) && c.Prefix != "" {
		return fmt.Errorf("invalid %s %q: must be an absolute path", EnvPrefix, c.Prefix)
	}

	return nil
}

// BinDir returns the directory installed executables are linked into.
func (c *Config) BinDir() string {
	return filepath.Join(c.Prefix, "bin")
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
