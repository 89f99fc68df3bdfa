//go:build linux

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"

	logging "github.com/nebula/svcview/internal/logger"
)

// newPlatformInspector creates the platform-specific inspector
func newPlatformInspector(ctx context.Context, logger *slog.Logger) (Inspector, error) {
	return NewSystemdInspector(ctx, logger)
}

// dbusAPI is the subset of the systemd D-Bus connection the inspector uses
type dbusAPI interface {
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	Close()
}

var newDBusAPI = func(ctx context.Context) (dbusAPI, error) {
	return dbus.NewSystemConnectionContext(ctx)
}

// SystemdInspector reads systemd units over the system bus
type SystemdInspector struct {
	mu       sync.Mutex
	conn     dbusAPI
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// NewSystemdInspector connects to the systemd system bus
func NewSystemdInspector(ctx context.Context, logger *slog.Logger) (*SystemdInspector, error) {
	conn, err := newDBusAPI(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SystemdInspector{conn: conn, logger: logger, readFile: os.ReadFile}, nil
}

// Name returns the backend name
func (s *SystemdInspector) Name() string { return "systemd" }

func (s *SystemdInspector) properties(ctx context.Context, name string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	props, err := s.conn.GetUnitPropertiesContext(ctx, unitName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get properties of %s: %w", unitName(name), err)
	}
	return props, nil
}

// Exists reports whether systemd can load the unit
func (s *SystemdInspector) Exists(ctx context.Context, name string) (bool, error) {
	props, err := s.properties(ctx, name)
	if err != nil {
		return false, err
	}
	state := stringProp(props, "LoadState")
	return state != "" && state != "not-found", nil
}

// IsRunning reports whether the unit is active
func (s *SystemdInspector) IsRunning(ctx context.Context, name string) (bool, error) {
	props, err := s.properties(ctx, name)
	if err != nil {
		return false, err
	}
	return stringProp(props, "ActiveState") == "active", nil
}

// Detail reads the unit's fragment file and drop-ins for the command line,
// type and user. The description comes from the files and falls back to the
// bus property. A file that cannot be read or parsed is skipped, leaving its
// fields empty.
func (s *SystemdInspector) Detail(ctx context.Context, name string) (Detail, error) {
	props, err := s.properties(ctx, name)
	if err != nil {
		return Detail{}, err
	}

	unit := unitName(name)
	d := Detail{
		Name:        unit,
		DisplayName: trimExtension(unit),
		Description: stringProp(props, "Description"),
	}

	var paths []string
	if path := stringProp(props, "FragmentPath"); path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, stringsProp(props, "DropInPaths")...)

	var uf unitFile
	for _, path := range paths {
		data, err := s.readFile(path)
		if err == nil {
			err = uf.apply(data)
		}
		if err != nil {
			s.logger.Debug("skipping unit file", "unit", unit, "path", path, "error", err)
		}
	}

	if uf.Description != "" {
		d.Description = uf.Description
	}
	d.ExecutablePath = uf.ExecStart
	d.ServiceType = uf.Type
	d.Account = uf.User

	return d.Sanitize(), nil
}

// Enumerate lists the loaded .service units without their suffix
func (s *SystemdInspector) Enumerate(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	units, err := s.conn.ListUnitsContext(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	raw := make([]string, 0, len(units))
	for _, u := range units {
		raw = append(raw, u.Name)
	}
	return serviceNames(raw), nil
}

// Close closes the bus connection
func (s *SystemdInspector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Close()
	return nil
}

func stringProp(props map[string]interface{}, key string) string {
	v, _ := props[key].(string)
	return v
}

func stringsProp(props map[string]interface{}, key string) []string {
	v, _ := props[key].([]string)
	return v
}
