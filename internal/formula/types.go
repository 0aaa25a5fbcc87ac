package formula

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/xtatsux/homebrew-spkdl/internal/github"
	"github.com/xtatsux/homebrew-spkdl/internal/platform"
)

// ErrNoResource is returned by ResourceFor when the formula has no build for
// the platform.
var ErrNoResource = errors.New("no resource for platform")

// Formula describes one installable tool.
type Formula struct {
	Name      string
	Desc      string
	Homepage  string
	Version   string
	License   string
	Strategy  github.Strategy
	Resources []Resource
	Install   Install
	Test      Test
}

// Resource is one platform build of the tool.
type Resource struct {
	OS        string // normalized GOOS
	Arch      string // "amd64" or "arm64"
	URL       string
	SHA256    string // lowercase hex
	Signature string // optional detached signature URL
}

// Filename returns the last path element of the resource URL.
func (r Resource) Filename() string {
	return path.Base(r.URL)
}

// Install lists what is copied into the prefix.
type Install struct {
	Bin []string // archive members installed into <prefix>/bin
}

// Test is the post-install smoke test: run the first bin with Args and
// expect Expect in its output.
type Test struct {
	Args   []string
	Expect string
}

// ResourceFor returns the resource built for info.
func (f *Formula) ResourceFor(info *platform.Info) (*Resource, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: platform unknown", ErrNoResource)
	}
	for i := range f.Resources {
		r := &f.Resources[i]
		if r.OS == info.OS && r.Arch == info.Arch {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no build for %s/%s", ErrNoResource, f.Name, info.OS, info.Arch)
}

// Platforms lists the os/arch pairs the formula ships, in declaration order.
func (f *Formula) Platforms() []string {
	out := make([]string, 0, len(f.Resources))
	for _, r := range f.Resources {
		out = append(out, r.OS+"/"+r.Arch)
	}
	return out
}

// ValidationError represents a formula validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "formula validation failed for " + e.Field + ": " + e.Message
	}
	return "formula validation failed: " + e.Message
}

var (
	namePattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9._+-]*$`)
	versionPattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z._+-]*$`)
	sha256Pattern  = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// Validate checks the formula and normalizes resource os/arch spellings and
// checksum case in place.
func (f *Formula) Validate() error {
	if !namePattern.MatchString(f.Name) {
		return &ValidationError{Field: luaFieldName, Message: fmt.Sprintf("invalid name %q", f.Name)}
	}
	if !versionPattern.MatchString(f.Version) {
		return &ValidationError{Field: luaFieldVersion, Message: fmt.Sprintf("invalid version %q", f.Version)}
	}
	if f.Homepage != "" && !strings.HasPrefix(f.Homepage, "https://") && !strings.HasPrefix(f.Homepage, "http://") {
		return &ValidationError{Field: luaFieldHomepage, Message: fmt.Sprintf("homepage must be an http(s) URL, got %q", f.Homepage)}
	}

	if len(f.Resources) == 0 {
		return &ValidationError{Field: luaFieldResource, Message: "at least one resource is required"}
	}
	if len(f.Resources) > MaxResources {
		return &ValidationError{
			Field:   luaFieldResource,
			Message: fmt.Sprintf("too many resources (%d), maximum is %d", len(f.Resources), MaxResources),
		}
	}

	seen := make(map[string]int)
	for i := range f.Resources {
		field := fmt.Sprintf("%s[%d]", luaFieldResource, i+1)
		if err := f.Resources[i].validate(field, f.Strategy); err != nil {
			return err
		}
		key := f.Resources[i].OS + "/" + f.Resources[i].Arch
		if prev, ok := seen[key]; ok {
			return &ValidationError{Field: field, Message: fmt.Sprintf("duplicate platform %s (also %s[%d])", key, luaFieldResource, prev)}
		}
		seen[key] = i + 1
	}

	if len(f.Install.Bin) == 0 {
		return &ValidationError{Field: luaFieldInstall + "." + luaFieldBin, Message: "at least one binary is required"}
	}
	for i, bin := range f.Install.Bin {
		if bin == "" || bin != path.Base(bin) || bin == "." || bin == ".." {
			return &ValidationError{
				Field:   fmt.Sprintf("%s.%s[%d]", luaFieldInstall, luaFieldBin, i+1),
				Message: fmt.Sprintf("binary must be a plain file name, got %q", bin),
			}
		}
	}

	return nil
}

func (r *Resource) validate(field string, strategy github.Strategy) error {
	osName, err := platform.NormalizeOS(r.OS)
	if err != nil {
		return &ValidationError{Field: field + "." + luaFieldOS, Message: err.Error()}
	}
	arch, err := platform.NormalizeArch(r.Arch)
	if err != nil {
		return &ValidationError{Field: field + "." + luaFieldArch, Message: err.Error()}
	}
	r.OS, r.Arch = osName, arch

	if _, err := github.ParseTarget(strategy, r.URL); err != nil {
		return &ValidationError{Field: field + "." + luaFieldURL, Message: err.Error()}
	}

	r.SHA256 = strings.ToLower(strings.TrimSpace(r.SHA256))
	if !sha256Pattern.MatchString(r.SHA256) {
		return &ValidationError{Field: field + "." + luaFieldSHA256, Message: "sha256 must be 64 hex characters"}
	}

	if r.Signature != "" {
		if _, err := github.ParseTarget(strategy, r.Signature); err != nil {
			return &ValidationError{Field: field + "." + luaFieldSig, Message: err.Error()}
		}
	}
	return nil
}
