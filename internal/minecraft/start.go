package minecraft

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// aikarFlags are the G1 tuning flags recommended for Paper servers.
var aikarFlags = []string{
	"-XX:+UseG1GC",
	"-XX:+ParallelRefProcEnabled",
	"-XX:MaxGCPauseMillis=200",
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+DisableExplicitGC",
	"-XX:+AlwaysPreTouch",
	"-XX:G1NewSizePercent=30",
	"-XX:G1MaxNewSizePercent=40",
	"-XX:G1HeapRegionSize=8M",
	"-XX:G1ReservePercent=20",
	"-XX:G1HeapWastePercent=5",
	"-XX:G1MixedGCCountTarget=4",
	"-XX:InitiatingHeapOccupancyPercent=15",
	"-XX:G1MixedGCLiveThresholdPercent=90",
	"-XX:G1RSetUpdatingPauseTimePercent=5",
	"-XX:SurvivorRatio=32",
	"-XX:+PerfDisableSharedMem",
	"-XX:MaxTenuringThreshold=1",
	"-Daikars.new.flags=true",
	"-Dusing.aikars.flags=https://mcutils.com",
}

// JavaArgs returns the java arguments for running jarPath with a fixed heap
// of ramMB megabytes.
func JavaArgs(ramMB int, jarPath string) []string {
	args := make([]string, 0, len(aikarFlags)+5)
	args = append(args, fmt.Sprintf("-Xmx%dM", ramMB), fmt.Sprintf("-Xms%dM", ramMB))
	args = append(args, aikarFlags...)
	return append(args, "-jar", jarPath, "nogui")
}

// StartOptions selects a server and wires the java process's stdio.
type StartOptions struct {
	// Name may be empty when exactly one server exists.
	Name   string
	RAMMB  int
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Pick returns the named server, or the only server when name is empty.
func (m *Manager) Pick(name string) (*Server, error) {
	if name != "" {
		return m.Find(name)
	}

	servers, err := m.List()
	if err != nil {
		return nil, err
	}
	switch len(servers) {
	case 0:
		return nil, fmt.Errorf("%w in %s", ErrNoServers, m.root)
	case 1:
		return &servers[0], nil
	default:
		names := make([]string, len(servers))
		for i, s := range servers {
			names[i] = s.Name
		}
		return nil, fmt.Errorf("several servers found, pick one of: %s", strings.Join(names, ", "))
	}
}

// Start runs the server in the foreground and returns when java exits.
func (m *Manager) Start(ctx context.Context, opts StartOptions) error {
	java, err := m.lookPath("java")
	if err != nil {
		return ErrJavaNotFound
	}

	server, err := m.Pick(opts.Name)
	if err != nil {
		return err
	}
	if !server.HasJar {
		return fmt.Errorf("%w for '%s'. Recreate without --skip-download or place a jar manually", ErrJarMissing, server.Name)
	}

	ramMB := opts.RAMMB
	if ramMB <= 0 {
		ramMB = DefaultRAMMB
	}
	jar := filepath.Join(server.Dir, JarFile)

	cmd := exec.CommandContext(ctx, java, JavaArgs(ramMB, jar)...)
	cmd.Dir = server.Dir
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	m.logger.Info("starting server", "name", server.Name, "ram_mb", ramMB, "java", java)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("java exited: %w", err)
	}
	return nil
}
