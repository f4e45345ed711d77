package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
//
// Distro and memory probes that fail are skipped; only a cancelled context
// is reported as an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		Arch:    normalizeArch(runtime.GOARCH),
		ArchRaw: runtime.GOARCH,
	}

	if info.IsLinux() {
		distro, _, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		if err == nil {
			info.Distro = normalizePlatform(distro)
			info.DistroVersion = normalizePlatform(version)
		}
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
	}
	if err == nil {
		info.TotalMemoryMB = vm.Total / (1024 * 1024)
	}

	return info, nil
}

// StaticDetector reports an Info that was detected earlier.
type StaticDetector struct {
	Info *Info
}

// Detect returns a copy of the stored Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if d.Info == nil {
		return nil, errors.New("no platform info")
	}
	info := *d.Info
	return &info, nil
}
