package platform

import (
	"context"
	"runtime"
	"testing"
)

// MockDetector is a test implementation of Detector.
type MockDetector struct {
	info *Info
	err  error
}

// NewMockDetector creates a mock detector with specified return values.
func NewMockDetector(info *Info, err error) Detector {
	return &MockDetector{info: info, err: err}
}

// Detect returns the pre-configured info and error.
func (m *MockDetector) Detect(ctx context.Context) (*Info, error) {
	return m.info, m.err
}

func TestRealDetector_Detect(t *testing.T) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}
	if info.Arch == "" {
		t.Error("Arch is empty")
	}
	if !info.IsLinux() && info.Distro != "" {
		t.Errorf("Distro = %q on non-Linux platform", info.Distro)
	}
}

func TestRealDetector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Probes that honour the context fail; either way no panic and no
	// partial info with an error.
	info, err := NewDetector().Detect(ctx)
	if err != nil && info != nil {
		t.Errorf("Detect() returned both info and error")
	}
}

func TestMockDetector(t *testing.T) {
	want := &Info{OS: "windows", Arch: "amd64"}
	got, err := NewMockDetector(want, nil).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != want {
		t.Errorf("Detect() = %v, want %v", got, want)
	}
}

func TestInfo_ExeSuffix(t *testing.T) {
	tests := []struct {
		os   string
		want string
	}{
		{"windows", ".exe"},
		{"linux", ""},
		{"darwin", ""},
	}
	for _, tt := range tests {
		info := &Info{OS: tt.os}
		if got := info.ExeSuffix(); got != tt.want {
			t.Errorf("ExeSuffix(%s) = %q, want %q", tt.os, got, tt.want)
		}
	}
}

func TestInfo_UserAgent(t *testing.T) {
	info := &Info{OS: "linux", Arch: "arm64"}
	if got, want := info.UserAgent("1.4.0"), "eagle/1.4.0 (linux/arm64)"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}

func TestInfo_HeapMB(t *testing.T) {
	tests := []struct {
		name       string
		totalMB    uint64
		configured int
		want       int
	}{
		{"plenty_of_memory", 32768, 8192, 8192},
		{"capped_at_half", 8192, 8192, 4096},
		{"floor_applies", 1024, 8192, MinHeapMB},
		{"configured_below_floor", 32768, 256, MinHeapMB},
		{"unknown_memory", 0, 6144, 6144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &Info{TotalMemoryMB: tt.totalMB}
			if got := info.HeapMB(tt.configured); got != tt.want {
				t.Errorf("HeapMB(%d) = %d, want %d", tt.configured, got, tt.want)
			}
		})
	}
}

func TestStaticDetector_Detect(t *testing.T) {
	orig := &Info{OS: "windows", Arch: "amd64", TotalMemoryMB: 8192}
	d := StaticDetector{Info: orig}

	info, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if *info != *orig {
		t.Errorf("Detect() = %+v, want %+v", info, orig)
	}

	info.OS = "linux"
	if orig.OS != "windows" {
		t.Error("Detect() returned the stored Info instead of a copy")
	}
}

func TestStaticDetector_NoInfo(t *testing.T) {
	if _, err := (StaticDetector{}).Detect(context.Background()); err == nil {
		t.Error("Detect() error = nil, want error")
	}
}
