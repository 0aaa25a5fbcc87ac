package install

import (
	"errors"
	"time"
)

var (
	// ErrChecksumMismatch is returned when a download does not match the
	// formula checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrSignatureInvalid is returned when a detached signature does not
	// verify against the keyring.
	ErrSignatureInvalid = errors.New("signature verification failed")
	// ErrTestFailed is returned when the smoke test output lacks the
	// expected text or the binary exits non-zero.
	ErrTestFailed = errors.New("formula test failed")
	// ErrNotInstalled is returned when a formula binary is missing from the
	// prefix or is not an executable file.
	ErrNotInstalled = errors.New("formula is not installed")
)

// VerificationMethod indicates how a download was verified
type VerificationMethod int

const (
	// VerificationNone indicates no verification
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates a detached GPG signature was checked
	VerificationGPG
	// VerificationSHA256 indicates the formula checksum was checked
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Result describes a completed installation.
type Result struct {
	Name       string
	Version    string
	Platform   string // os/arch the resource was built for
	URL        string
	Binaries   []string // absolute paths under <prefix>/bin
	Verified   []VerificationMethod
	TestOutput string // empty when the test was skipped
	Duration   time.Duration
}
