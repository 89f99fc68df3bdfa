package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nebula/svcview/internal/aggregator"
	"github.com/nebula/svcview/internal/auth"
	"github.com/nebula/svcview/internal/config"
	"github.com/nebula/svcview/internal/logger"
	"github.com/nebula/svcview/internal/metrics"
	"github.com/nebula/svcview/internal/registry"
	"github.com/nebula/svcview/internal/service"
	"github.com/nebula/svcview/internal/storage"
	"github.com/nebula/svcview/internal/ui"
)

var newInspector = service.NewInspector

// app bundles what every command needs after configuration is loaded
type app struct {
	cfg    *config.Manager
	log    *slog.Logger
	store  *storage.Storage
	closer []io.Closer
}

func setup(cmd *cobra.Command, global GlobalFlags) (*app, error) {
	cfg, err := config.NewManager(global.ConfigPath,
		config.WithFlag("log.level", cmd.Flags().Lookup("log-level")))
	if err != nil {
		return nil, err
	}
	c := cfg.Get()

	log, logCloser, err := logger.New(c.LoggerConfig())
	if err != nil {
		return nil, err
	}
	cfg.SetLogger(log)
	a := &app{cfg: cfg, log: log, closer: []io.Closer{logCloser}}
	log.Info("starting", "config", cfg.File(), "pid", os.Getpid())

	if c.Storage.Enabled {
		store, err := storage.New(c.Storage.Path)
		if err != nil {
			// history is a convenience; run without it
			log.Warn("failed to open storage", "path", c.Storage.Path, "error", err)
		} else {
			a.store = store
			a.closer = append(a.closer, store)
		}
	}
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		_ = a.closer[i].Close()
	}
}

func runView(cmd *cobra.Command, global GlobalFlags, view ViewFlags) error {
	a, err := setup(cmd, global)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	tty := isTerminal(out)

	prompt := cmd.ErrOrStderr()
	line, err := resolveInput(view.Services, lastInput(a.store), cmd.InOrStdin(), prompt, isTerminal(prompt))
	if err != nil {
		return err
	}
	names := registry.ParseInput(line)
	a.log.Info("services requested", "names", names)
	if a.store != nil {
		if err := a.store.SaveInput(line, time.Now()); err != nil {
			a.log.Warn("failed to save input", "error", err)
		}
	}

	insp, err := newInspector(ctx, a.log)
	if err != nil {
		return fmt.Errorf("cannot inspect services: %w", err)
	}
	defer insp.Close()

	cfg := a.cfg.Get()
	agg := aggregator.New(registry.New(names...), insp, a.log)
	agg.SetQueryTimeout(cfg.Inspector.QueryTimeout)

	if view.Once || !tty {
		report := agg.Aggregate(ctx)
		return printReport(out, report, tty)
	}

	header := ui.Header{Backend: insp.Name(), Elevated: auth.IsElevated()}
	if hint := auth.PrivilegeHint(); hint != "" {
		a.log.Warn(hint)
	}
	if cfg.UI.ShowHost {
		if info, err := metrics.GetSystemInfo(ctx); err == nil {
			header.Host = info.Summary(time.Now())
		} else {
			a.log.Warn("failed to read host info", "error", err)
		}
	}

	return runInteractive(ctx, a, agg, header)
}

func runInteractive(ctx context.Context, a *app, agg *aggregator.Aggregator, header ui.Header) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("cannot initialize terminal: %w", err)
	}
	defer screen.Fini()

	ctrl := ui.NewController(ui.Options{Wrap: a.cfg.Get().UI.WrapSelection})
	loop := ui.NewLoop(screen, ctrl, agg, header, a.log)

	a.cfg.OnReload(func(c *config.Config) {
		a.log.Info("configuration reloaded", "file", a.cfg.File())
		agg.SetQueryTimeout(c.Inspector.QueryTimeout)
		loop.SetOptions(ui.Options{Wrap: c.UI.WrapSelection})
	})

	return loop.Run(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var errNoServices = errors.New("no services given; pass --services or type a comma separated list")
