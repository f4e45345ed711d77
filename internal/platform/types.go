// Package platform detects the host the CLI runs on and exposes it to the
// Lua configuration as a read-only table.
//
// Detection uses runtime for OS and architecture and gopsutil for the Linux
// distribution and physical memory. Probes that fail degrade to empty values
// so the CLI keeps working on unusual hosts.
package platform

import (
	"context"
	"fmt"
)

// Info contains platform detection information.
type Info struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // "amd64", "arm64", or GOARCH as is
	ArchRaw string // original GOARCH

	Distro        string // distro ID (Linux only, e.g. "ubuntu")
	DistroVersion string // distro version (Linux only, e.g. "24.04")

	// TotalMemoryMB is the physical memory in MiB, or 0 when unknown.
	TotalMemoryMB uint64
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// ExeSuffix returns ".exe" on Windows and "" elsewhere.
func (i *Info) ExeSuffix() string {
	if i.IsWindows() {
		return ".exe"
	}
	return ""
}

// UserAgent returns the HTTP User-Agent for the given CLI version,
// e.g. "eagle/1.4.0 (linux/amd64)".
func (i *Info) UserAgent(version string) string {
	return fmt.Sprintf("eagle/%s (%s/%s)", version, i.OS, i.Arch)
}

// MinHeapMB is the smallest heap handed to a server JVM.
const MinHeapMB = 1024

// HeapMB caps the configured heap at half of physical memory, never going
// below MinHeapMB. Unknown memory leaves the configured value alone.
func (i *Info) HeapMB(configured int) int {
	heap := configured
	if i.TotalMemoryMB > 0 {
		half := int(i.TotalMemoryMB / 2)
		heap = min(heap, half)
	}
	return max(heap, MinHeapMB)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
