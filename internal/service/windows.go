//go:build windows

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shirou/gopsutil/v3/winservices"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// newPlatformInspector creates the platform-specific inspector
func newPlatformInspector(ctx context.Context, logger *slog.Logger) (Inspector, error) {
	return NewWindowsInspector()
}

// WindowsInspector queries the Service Control Manager
type WindowsInspector struct {
	mu sync.Mutex
	m  *mgr.Mgr
}

// NewWindowsInspector connects to the local SCM
func NewWindowsInspector() (*WindowsInspector, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to service manager: %w", err)
	}
	return &WindowsInspector{m: m}, nil
}

// Name returns the backend name
func (w *WindowsInspector) Name() string { return "scm" }

func (w *WindowsInspector) open(name string) (*mgr.Service, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.m.OpenService(name)
}

// Exists reports whether the SCM knows the service
func (w *WindowsInspector) Exists(ctx context.Context, name string) (bool, error) {
	s, err := w.open(name)
	if err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	s.Close()
	return true, nil
}

// IsRunning reports whether the service is in the running state
func (w *WindowsInspector) IsRunning(ctx context.Context, name string) (bool, error) {
	s, err := w.open(name)
	if err != nil {
		return false, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return false, fmt.Errorf("failed to query service %s: %w", name, err)
	}
	return status.State == svc.Running, nil
}

// Detail reads the service configuration
func (w *WindowsInspector) Detail(ctx context.Context, name string) (Detail, error) {
	s, err := w.open(name)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	defer s.Close()

	cfg, err := s.Config()
	if err != nil {
		return Detail{}, fmt.Errorf("failed to read config of %s: %w", name, err)
	}

	d := Detail{
		Name:           name,
		DisplayName:    cfg.DisplayName,
		ExecutablePath: cfg.BinaryPathName,
		Description:    cfg.Description,
		ServiceType:    windowsServiceType(cfg.ServiceType),
		Account:        cfg.ServiceStartName,
	}
	return d.Sanitize(), nil
}

// Enumerate lists every service registered with the SCM
func (w *WindowsInspector) Enumerate(ctx context.Context) ([]string, error) {
	services, err := winservices.ListServices()
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	return names, nil
}

// Close disconnects from the SCM
func (w *WindowsInspector) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.m.Disconnect()
}
