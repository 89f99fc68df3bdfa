package service

import (
	"context"
	"errors"
	"log/slog"

	logging "github.com/nebula/svcview/internal/logger"
)

// ErrUnsupported is returned when the host has no service inspector backend
var ErrUnsupported = errors.New("service inspection is not supported on this platform")

// Detail contains the descriptive fields of one service.
// Any field may be empty when the service manager does not report it.
type Detail struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	ExecutablePath string `json:"executable_path"`
	Description    string `json:"description"`
	ServiceType    string `json:"service_type"`
	Account        string `json:"account"`
}

// Inspector reads service state from the host's service manager.
// Names are given the way the operator typed them; backends add or strip
// platform suffixes themselves.
type Inspector interface {
	// Name identifies the backend, e.g. "systemd"
	Name() string

	// Exists reports whether the service manager knows the service
	Exists(ctx context.Context, name string) (bool, error)

	// IsRunning reports whether the service is currently running
	IsRunning(ctx context.Context, name string) (bool, error)

	// Detail returns descriptive information about the service
	Detail(ctx context.Context, name string) (Detail, error)

	// Enumerate lists every service name on the host
	Enumerate(ctx context.Context) ([]string, error)

	// Close releases the connection to the service manager
	Close() error
}

// NewInspector creates the inspector for the current OS. A nil logger
// discards output.
func NewInspector(ctx context.Context, logger *slog.Logger) (Inspector, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	return newPlatformInspector(ctx, logger)
}
