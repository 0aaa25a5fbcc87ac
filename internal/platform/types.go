// Package platform detects the operating system and CPU architecture a
// formula is being installed on.
//
// The detected Info selects the formula resource to download and is exposed
// to formula files as a read-only Lua table named "platform". Linux
// distribution details come from gopsutil and are best effort: when they
// cannot be read, detection still succeeds with OS and architecture only.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info describes the host a formula is installed on.
type Info struct {
	OS         string // "linux", "darwin", "windows"
	Arch       string // "amd64" or "arm64" (normalized)
	KernelArch string // machine reported by the kernel, e.g. "x86_64", "aarch64"
	Distro     string // distro ID (Linux only, e.g. "ubuntu")
	Family     string // canonical family (Linux only, e.g. "debian")
	Version    string // distro version (Linux only, e.g. "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// IsTranslated reports whether an amd64 process runs on an arm64 kernel,
// as under Rosetta 2.
func (i *Info) IsTranslated() bool {
	native, err := NormalizeArch(i.KernelArch)
	return err == nil && i.Arch == "amd64" && native == "arm64"
}

// ReleaseOS returns the OS spelling used in release asset names
// ("Darwin", "Linux", "Windows").
func (i *Info) ReleaseOS() string {
	switch i.OS {
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return i.OS
	}
}

// ReleaseArch returns the architecture spelling used in release asset names
// ("x86_64", "arm64").
func (i *Info) ReleaseArch() string {
	if i.Arch == "amd64" {
		return "x86_64"
	}
	return i.Arch
}

func (i *Info) String() string {
	s := i.OS + "/" + i.Arch
	if i.Distro != "" {
		s += " (" + i.Distro
		if i.Version != "" {
			s += " " + i.Version
		}
		s += ")"
	}
	return s
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
