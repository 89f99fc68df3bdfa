//go:build !linux && !windows && !darwin

package service

import (
	"context"
	"log/slog"
)

func newPlatformInspector(ctx context.Context, logger *slog.Logger) (Inspector, error) {
	return nil, ErrUnsupported
}
