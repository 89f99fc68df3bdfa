//go:build darwin

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// newPlatformInspector creates the platform-specific inspector
func newPlatformInspector(ctx context.Context, logger *slog.Logger) (Inspector, error) {
	return NewLaunchctlInspector()
}

var runLaunchctl = func(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "launchctl", args...).Output()
}

// LaunchctlInspector reads launchd jobs through the launchctl tool
type LaunchctlInspector struct{}

// NewLaunchctlInspector checks that launchctl is available
func NewLaunchctlInspector() (*LaunchctlInspector, error) {
	if _, err := exec.LookPath("launchctl"); err != nil {
		return nil, fmt.Errorf("launchctl not found: %w", err)
	}
	return &LaunchctlInspector{}, nil
}

// Name returns the backend name
func (l *LaunchctlInspector) Name() string { return "launchd" }

// Exists reports whether launchd has a job with this label.
// launchctl exits non-zero for unknown labels.
func (l *LaunchctlInspector) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := runLaunchctl(ctx, "list", name); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to run launchctl: %w", err)
	}
	return true, nil
}

// IsRunning reports whether the job has a PID
func (l *LaunchctlInspector) IsRunning(ctx context.Context, name string) (bool, error) {
	out, err := runLaunchctl(ctx, "list", name)
	if err != nil {
		return false, fmt.Errorf("failed to get job %s: %w", name, err)
	}
	return parseLaunchdJob(string(out)).PID > 0, nil
}

// Detail returns the job's program and the plist it was loaded from
func (l *LaunchctlInspector) Detail(ctx context.Context, name string) (Detail, error) {
	out, err := runLaunchctl(ctx, "list", name)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to get job %s: %w", name, err)
	}
	job := parseLaunchdJob(string(out))

	d := Detail{
		Name:           name,
		DisplayName:    name,
		ExecutablePath: job.Program,
	}
	if plist := findPlist(name); plist != "" {
		d.Description = "Plist: " + plist
		d.ServiceType = plistKind(plist)
	}
	return d.Sanitize(), nil
}

// Enumerate lists the labels of every loaded job
func (l *LaunchctlInspector) Enumerate(ctx context.Context) ([]string, error) {
	out, err := runLaunchctl(ctx, "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return parseLaunchdList(string(out)), nil
}

// Close is a no-op
func (l *LaunchctlInspector) Close() error { return nil }

var plistDirs = []string{
	"/Library/LaunchDaemons",
	"/Library/LaunchAgents",
	"/System/Library/LaunchDaemons",
	"/System/Library/LaunchAgents",
}

// findPlist finds the plist file for a label
func findPlist(name string) string {
	for _, dir := range plistDirs {
		path := filepath.Join(dir, name+".plist")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func plistKind(path string) string {
	switch filepath.Base(filepath.Dir(path)) {
	case "LaunchDaemons":
		return "Daemon"
	case "LaunchAgents":
		return "Agent"
	}
	return ""
}
