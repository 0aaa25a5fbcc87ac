package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Strategy selects how a GitHub URL is fetched.
type Strategy int

const (
	// StrategyAuto picks StrategyRelease when the URL has the release
	// download shape and StrategyRepository otherwise.
	StrategyAuto Strategy = iota
	// StrategyRepository fetches any path of a repository tree through the
	// token-authorized raw URL.
	StrategyRepository
	// StrategyRelease fetches a named release asset through the API's asset
	// download endpoint.
	StrategyRelease
)

// String returns the strategy name used in formulae and on the command line.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyRepository:
		return "repository"
	case StrategyRelease:
		return "release"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a strategy name to a Strategy. The long Homebrew-style
// names are accepted as aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return StrategyAuto, nil
	case "repository", "github_private_repository":
		return StrategyRepository, nil
	case "release", "github_private_release":
		return StrategyRelease, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown download strategy %q (want auto, repository or release)", name)
	}
}

var (
	repositoryURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/(\S+)`)
	releaseURLPattern    = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/releases/download/([^/]+)/(\S+)`)
)

// Target is a parsed GitHub URL. Strategy tells which fields are set:
// Path for StrategyRepository, Tag and Filename for StrategyRelease.
type Target struct {
	Strategy Strategy
	Owner    string
	Repo     string
	Path     string
	Tag      string
	Filename string
}

// Slug returns "owner/repo".
func (t Target) Slug() string {
	return t.Owner + "/" + t.Repo
}

// DetectStrategy chooses a concrete strategy from the shape of rawURL.
func DetectStrategy(rawURL string) Strategy {
	if releaseURLPattern.MatchString(rawURL) {
		return StrategyRelease
	}
	return StrategyRepository
}

// ParseTarget parses rawURL with the pattern of strategy. StrategyAuto is
// resolved with DetectStrategy first. A URL that does not match the pattern of
// the strategy in use fails with ErrInvalidURLPattern; it is never retried
// against the other pattern.
func ParseTarget(strategy Strategy, rawURL string) (Target, error) {
	if strategy == StrategyAuto {
		strategy = DetectStrategy(rawURL)
	}

	switch strategy {
	case StrategyRepository:
		m := repositoryURLPattern.FindStringSubmatch(rawURL)
		if m == nil {
			return Target{}, newFetchError(ErrInvalidURLPattern, fmt.Sprintf("invalid url pattern for GitHub repository: %s", rawURL), nil)
		}
		return Target{Strategy: StrategyRepository, Owner: m[1], Repo: m[2], Path: m[3]}, nil

	case StrategyRelease:
		m := releaseURLPattern.FindStringSubmatch(rawURL)
		if m == nil {
			return Target{}, newFetchError(ErrInvalidURLPattern, fmt.Sprintf("invalid url pattern for GitHub release: %s", rawURL), nil)
		}
		return Target{Strategy: StrategyRelease, Owner: m[1], Repo: m[2], Tag: m[3], Filename: m[4]}, nil

	default:
		return Target{}, newFetchError(ErrInvalidURLPattern, fmt.Sprintf("unsupported download strategy %s", strategy), nil)
	}
}

// Endpoints holds the GitHub base URLs. The zero value means github.com.
type Endpoints struct {
	API string // e.g. https://api.github.com
	Web string // e.g. https://github.com
}

// DefaultEndpoints are the public github.com endpoints.
var DefaultEndpoints = Endpoints{
	API: "https://api.github.com",
	Web: "https://github.com",
}

func (e Endpoints) withDefaults() Endpoints {
	if e.API == "" {
		e.API = DefaultEndpoints.API
	}
	if e.Web == "" {
		e.Web = DefaultEndpoints.Web
	}
	e.API = strings.TrimRight(e.API, "/")
	e.Web = strings.TrimRight(e.Web, "/")
	return e
}

// RepositoryURL returns the access-probe endpoint for owner/repo.
func (e Endpoints) RepositoryURL(owner, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s", e.withDefaults().API, owner, repo)
}

// ReleaseByTagURL returns the release metadata endpoint for tag.
func (e Endpoints) ReleaseByTagURL(owner, repo, tag string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", e.withDefaults().API, owner, repo, tag)
}

// ContentDownloadURL returns the token-authorized raw URL of a repository path:
// https://<token>@github.com/<owner>/<repo>/<path>.
func (e Endpoints) ContentDownloadURL(token string, t Target) string {
	return withUserInfo(e.withDefaults().Web, token) + "/" + t.Owner + "/" + t.Repo + "/" + t.Path
}

// AssetDownloadURL returns the token-authorized asset endpoint:
// https://<token>@api.github.com/repos/<owner>/<repo>/releases/assets/<id>.
func (e Endpoints) AssetDownloadURL(token string, t Target, assetID int64) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/assets/%d", withUserInfo(e.withDefaults().API, token), t.Owner, t.Repo, assetID)
}

// withUserInfo inserts token as the user-info component of base. base is
// returned unchanged when it cannot be parsed.
func withUserInfo(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	u.User = url.User(token)
	return u.String()
}

// redactURL hides the user-info component of rawURL for logging.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	u.User = url.User("REDACTED")
	return u.String()
}
