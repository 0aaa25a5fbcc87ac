package config

// Environment variables read by Load.
const (
	EnvGitHubToken  = "HOMEBREW_GITHUB_API_TOKEN"
	EnvNoGitHubAPI  = "HOMEBREW_NO_GITHUB_API"
	EnvTemp         = "HOMEBREW_TEMP"
	EnvAPITransport = "HOMEBREW_API_TRANSPORT"
	EnvCurlPath     = "HOMEBREW_CURL_PATH"
	EnvCurlRetries  = "HOMEBREW_CURL_RETRIES"
	EnvPrefix       = "HOMEBREW_PREFIX"
	EnvDebug        = "HOMEBREW_DEBUG"
	EnvNoColor      = "HOMEBREW_NO_COLOR"
	EnvGitHubAPIURL = "HOMEBREW_GITHUB_API_URL"
	EnvGitHubWebURL = "HOMEBREW_GITHUB_URL"
)

// API transports selectable through HOMEBREW_API_TRANSPORT.
const (
	TransportHTTP = "http"
	TransportCurl = "curl"
)

// Defaults
const (
	DefaultCurlPath  = "curl"
	DefaultAPIURL    = "https://api.github.com"
	DefaultWebURL    = "https://github.com"
	MaxCurlRetries   = 10
	defaultPrefixDir = ".local"
)
