package github

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error classes. Every error returned by this package that is not a plain
// transport failure wraps exactly one of these; test with errors.Is.
var (
	ErrInvalidURLPattern      = errors.New("invalid url pattern")
	ErrMissingToken           = errors.New("missing GitHub token")
	ErrRepositoryAccessDenied = errors.New("repository access denied")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrMalformedRequest       = errors.New("malformed API request")
	ErrMalformedResponse      = errors.New("malformed API response")
	ErrAuthenticationFailed   = errors.New("GitHub authentication failed")
	ErrRateLimited            = errors.New("GitHub API rate limit exceeded")
	ErrNotFound               = errors.New("GitHub API resource not found")
	ErrValidationFailed       = errors.New("GitHub API validation failed")
	ErrAPI                    = errors.New("GitHub API error")
)

// FetchError is a classified failure raised by the fetcher before or around
// an API call.
type FetchError struct {
	Kind    error  // one of the Err* sentinels
	Message string // user-facing message
	Err     error  // underlying cause, may be nil
}

func newFetchError(kind error, message string, cause error) *FetchError {
	return &FetchError{Kind: kind, Message: message, Err: cause}
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the class and the cause to errors.Is/As.
func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// APIError is a non-successful response from the GitHub API.
type APIError struct {
	Kind       error    // ErrAuthenticationFailed, ErrRateLimited, ErrNotFound, ErrValidationFailed or ErrAPI
	StatusCode int      // HTTP status, 0 when the transport failed before a status was read
	Message    string   // API "message" field, or a transport description
	Body       string   // excerpt of the response body
	Scopes     []string // scopes the call required, if the caller declared any
	Errors     []string // field errors reported with a 422
	Reset      time.Time
}

func (e *APIError) Error() string {
	var b strings.Builder

	switch e.Kind {
	case ErrRateLimited:
		fmt.Fprintf(&b, "GitHub API rate limit exceeded: %s", e.Message)
		if !e.Reset.IsZero() {
			fmt.Fprintf(&b, " (resets at %s)", e.Reset.UTC().Format(time.RFC3339))
		}
	case ErrAuthenticationFailed:
		fmt.Fprintf(&b, "GitHub API authentication failed (status %d): %s", e.StatusCode, e.Message)
		b.WriteString("\nThe token in HOMEBREW_GITHUB_API_TOKEN may be invalid or expired")
	case ErrValidationFailed:
		fmt.Fprintf(&b, "GitHub API validation failed (status %d): %s", e.StatusCode, e.Message)
		if len(e.Errors) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(e.Errors, "; "))
		}
	default:
		fmt.Fprintf(&b, "GitHub API error (status %d): %s", e.StatusCode, e.Message)
		if e.Body != "" && e.Body != e.Message {
			fmt.Fprintf(&b, "\n%s", e.Body)
		}
	}

	if len(e.Scopes) > 0 {
		fmt.Fprintf(&b, "\nThis request requires a token with the scopes: %s", strings.Join(e.Scopes, ", "))
	}

	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
