// Package config loads the tap's runtime configuration from the environment.
//
// All settings are read once, by Load, into an explicit Config value that is
// threaded into the fetcher, the API client and the installer. Nothing below
// this package calls os.Getenv at request time, so tests can build a Config
// literal and exercise both the "API enabled" and "API disabled" paths
// deterministically.
//
// # Environment
//
//	HOMEBREW_GITHUB_API_TOKEN  token used for every GitHub request (required for fetches)
//	HOMEBREW_NO_GITHUB_API     any non-empty value turns API calls into no-ops
//	HOMEBREW_TEMP              root directory for scratch files (default: os.TempDir())
//	HOMEBREW_API_TRANSPORT     "http" (default) or "curl"
//	HOMEBREW_CURL_PATH         curl binary used by the curl transport
//	HOMEBREW_CURL_RETRIES      transfer retries performed by the download layer (default 0)
//	HOMEBREW_PREFIX            installation prefix (default: ~/.local)
//	HOMEBREW_DEBUG             enables debug logging
//	HOMEBREW_NO_COLOR          disables colored output
//	HOMEBREW_GITHUB_API_URL    GitHub API base URL (GitHub Enterprise)
//	HOMEBREW_GITHUB_URL        GitHub web base URL (GitHub Enterprise)
//
// The package also defines the Logger interface shared by the other packages.
package config
