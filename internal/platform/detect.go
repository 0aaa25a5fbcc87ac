package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector for the running process.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports the OS and architecture of the running binary, plus the
// kernel machine type and, on Linux, the distribution from gopsutil.
//
// gopsutil failures are not fatal: the distribution fields stay empty.
// A cancelled context is.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info, err := FromStrings(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	// gopsutil reports partial results alongside an error; take what it found.
	stat, _ := host.InfoWithContext(ctx)
	if ctx.Err() != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
	}
	if stat == nil {
		return info, nil
	}

	info.KernelArch = normalizeID(stat.KernelArch)

	if info.IsLinux() {
		distro := normalizeID(stat.Platform)
		if distro != "" {
			info.Distro = distro
			info.Family = mapFamily(stat.PlatformFamily)
			info.Version = normalizeID(stat.PlatformVersion)
		}
	}

	return info, nil
}

// FromStrings builds an Info from explicit OS and architecture names, as
// given on the command line. Both are normalized; aliases such as "macos"
// and "x86_64" are accepted.
func FromStrings(goos, goarch string) (*Info, error) {
	osName, err := NormalizeOS(goos)
	if err != nil {
		return nil, err
	}
	arch, err := NormalizeArch(goarch)
	if err != nil {
		return nil, err
	}
	return &Info{OS: osName, Arch: arch}, nil
}

// staticDetector always returns the same Info.
type staticDetector struct {
	info *Info
}

// StaticDetector returns a Detector that reports info. It is used when the
// target platform is given explicitly.
func StaticDetector(info *Info) Detector {
	return &staticDetector{info: info}
}

func (s *staticDetector) Detect(ctx context.Context) (*Info, error) {
	if s.info == nil {
		return nil, fmt.Errorf("no platform configured")
	}
	copied := *s.info
	return &copied, nil
}
