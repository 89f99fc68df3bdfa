package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nebula/svcview/internal/aggregator"
	logging "github.com/nebula/svcview/internal/logger"
)

// Refresher produces a fresh report
type Refresher interface {
	Aggregate(ctx context.Context) aggregator.Report
}

type quitSignal struct{}

// Loop is the terminal event loop. The screen must already be initialized;
// the caller is responsible for calling Fini after Run returns.
type Loop struct {
	screen    tcell.Screen
	ctrl      *Controller
	refresher Refresher
	header    Header
	logger    *slog.Logger
	now       func() time.Time

	done chan struct{}
}

// NewLoop wires a screen, a controller and a refresher together
func NewLoop(screen tcell.Screen, ctrl *Controller, r Refresher, h Header, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loop{
		screen:    screen,
		ctrl:      ctrl,
		refresher: r,
		header:    h,
		logger:    logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Run starts the first refresh and processes events until the operator
// exits or ctx is cancelled. A panic restores the terminal before it
// propagates.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer func() {
		if r := recover(); r != nil {
			l.screen.Fini()
			panic(r)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			l.post(context.Background(), quitSignal{})
		case <-l.done:
		}
	}()

	l.screen.HideCursor()
	l.dispatch(ctx, CmdRefresh)

	for l.ctrl.Running() {
		Draw(l.screen, l.ctrl, l.header, l.now())
		l.screen.Show()

		ev := l.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			l.dispatch(ctx, CommandFor(ev))
		case *tcell.EventResize:
			l.screen.Sync()
		case *tcell.EventInterrupt:
			l.apply(ev.Data())
		}
	}
	return nil
}

// SetOptions hands new list options to the running loop
func (l *Loop) SetOptions(opts Options) {
	go l.post(context.Background(), opts)
}

func (l *Loop) dispatch(ctx context.Context, cmd Command) {
	if cmd == CmdNone {
		return
	}
	l.logger.Debug("command", "cmd", cmd.String())
	if l.ctrl.Handle(cmd) == EffectRefresh {
		go func() {
			report := l.refresher.Aggregate(ctx)
			l.post(ctx, report)
		}()
	}
}

func (l *Loop) apply(data interface{}) {
	switch d := data.(type) {
	case aggregator.Report:
		l.ctrl.Finish(d)
		l.logger.Info("refresh complete", "records", len(d.Records), "warnings", len(d.Warnings))
	case Options:
		l.ctrl.SetOptions(d)
		l.logger.Info("list options changed", "wrap", d.Wrap)
	case quitSignal:
		l.ctrl.Handle(CmdExit)
	}
}

// post delivers data to the loop, retrying while the event queue is full
func (l *Loop) post(ctx context.Context, data interface{}) {
	for {
		err := l.screen.PostEvent(tcell.NewEventInterrupt(data))
		if err == nil {
			return
		}
		select {
		case <-l.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}
