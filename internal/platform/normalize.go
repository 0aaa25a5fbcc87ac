package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution family strings reported by gopsutil to
// canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// NormalizeOS maps OS names and their common aliases to GOOS values.
func NormalizeOS(name string) (string, error) {
	switch normalizeID(name) {
	case "darwin", "macos", "mac", "osx":
		return "darwin", nil
	case "linux":
		return "linux", nil
	case "windows":
		return "windows", nil
	default:
		return "", fmt.Errorf("unsupported operating system: %q", name)
	}
}

// NormalizeArch maps architecture names to the two supported values.
// Release asset spellings (x86_64, aarch64) are accepted.
func NormalizeArch(arch string) (string, error) {
	switch normalizeID(arch) {
	case "amd64", "x86_64", "x64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %q (amd64 and arm64 only)", arch)
	}
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizeID(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
