package ui

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebula/svcview/internal/aggregator"
)

// signalHandler forwards every log message to a channel so tests can wait
// for the loop to reach a given point.
type signalHandler struct{ ch chan string }

func (h signalHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h signalHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		msg += " " + a.String()
		return true
	})
	h.ch <- msg
	return nil
}
func (h signalHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h signalHandler) WithGroup(string) slog.Handler      { return h }

func waitLog(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			if msg == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for log %q", want)
		}
	}
}

type stubRefresher struct {
	mu      sync.Mutex
	calls   int
	report  aggregator.Report
	release chan struct{}
}

func (r *stubRefresher) Aggregate(ctx context.Context) aggregator.Report {
	r.mu.Lock()
	r.calls++
	release := r.release
	r.mu.Unlock()
	if release != nil {
		<-release
	}
	return r.report
}

func (r *stubRefresher) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type harness struct {
	screen tcell.SimulationScreen
	ctrl   *Controller
	loop   *Loop
	logs   chan string
	done   chan error
}

func startLoop(t *testing.T, ctx context.Context, r Refresher) *harness {
	t.Helper()
	s := newSimScreen(t, 100, 20)
	h := &harness{
		screen: s,
		ctrl:   NewController(Options{}),
		logs:   make(chan string, 256),
		done:   make(chan error, 1),
	}
	h.loop = NewLoop(s, h.ctrl, r, Header{Host: "test"}, slog.New(signalHandler{h.logs}))
	go func() { h.done <- h.loop.Run(ctx) }()
	t.Cleanup(s.Fini)
	return h
}

func (h *harness) wait(t *testing.T) {
	t.Helper()
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
}

func TestLoopRefreshSelectAndQuit(t *testing.T) {
	r := &stubRefresher{report: sampleReport(time.Now())}
	h := startLoop(t, context.Background(), r)

	waitLog(t, h.logs, "refresh complete records=2 warnings=0")
	h.screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	h.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	h.wait(t)

	assert.False(t, h.ctrl.Running())
	assert.Equal(t, 0, h.ctrl.Cursor())
	assert.Equal(t, 1, r.Calls())
	text := screenText(h.screen)
	assert.Contains(t, text, "OpenSSH server daemon")
}

func TestLoopRejectsRefreshWhileRunning(t *testing.T) {
	r := &stubRefresher{release: make(chan struct{})}
	h := startLoop(t, context.Background(), r)

	h.screen.InjectKey(tcell.KeyF5, 0, tcell.ModNone)
	waitLog(t, h.logs, "command cmd=refresh")
	waitLog(t, h.logs, "command cmd=refresh")
	close(r.release)
	waitLog(t, h.logs, "refresh complete records=0 warnings=0")

	h.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	waitLog(t, h.logs, "refresh complete records=0 warnings=0")
	h.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	h.wait(t)

	assert.Equal(t, 2, r.Calls())
}

func TestLoopAppliesOptions(t *testing.T) {
	r := &stubRefresher{report: sampleReport(time.Now())}
	h := startLoop(t, context.Background(), r)

	waitLog(t, h.logs, "refresh complete records=2 warnings=0")
	h.loop.SetOptions(Options{Wrap: true})
	waitLog(t, h.logs, "list options changed wrap=true")

	h.screen.InjectKey(tcell.KeyHome, 0, tcell.ModNone)
	h.screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	h.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	h.wait(t)

	assert.Equal(t, 1, h.ctrl.Cursor())
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &stubRefresher{}
	h := startLoop(t, ctx, r)

	waitLog(t, h.logs, "refresh complete records=0 warnings=0")
	cancel()
	h.wait(t)

	assert.False(t, h.ctrl.Running())
}

// panicScreen fails on the first Show and records whether it was finalized
type panicScreen struct {
	tcell.SimulationScreen
	finalized bool
}

func (s *panicScreen) Show() { panic("boom") }

func (s *panicScreen) Fini() {
	s.finalized = true
	s.SimulationScreen.Fini()
}

func TestLoopRestoresScreenOnPanic(t *testing.T) {
	s := &panicScreen{SimulationScreen: newSimScreen(t, 80, 10)}
	loop := NewLoop(s, NewController(Options{}), &stubRefresher{}, Header{}, nil)

	assert.PanicsWithValue(t, "boom", func() { _ = loop.Run(context.Background()) })
	assert.True(t, s.finalized, "screen must be finalized before the panic propagates")
}
