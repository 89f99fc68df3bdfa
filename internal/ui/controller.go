// Package ui implements the interactive service list.
package ui

import (
	"fmt"
	"time"

	"github.com/nebula/svcview/internal/aggregator"
)

// NoSelection is the cursor value when nothing is selected
const NoSelection = -1

// Effect tells the caller what to do after a command
type Effect int

const (
	EffectNone Effect = iota
	// EffectRefresh asks the caller to run an aggregation and hand the
	// report to Finish
	EffectRefresh
)

// Options are the operator-tunable list behaviours
type Options struct {
	// Wrap makes next/prev cycle around the ends instead of stopping
	Wrap bool
}

// Controller holds the list state. It is not safe for concurrent use; the
// event loop owns it.
type Controller struct {
	running    bool
	refreshing bool
	records    []aggregator.StatusRecord
	cursor     int
	opts       Options

	warnings []string
	updated  time.Time
	message  string
}

// NewController returns a running controller with an empty list
func NewController(opts Options) *Controller {
	return &Controller{running: true, cursor: NoSelection, opts: opts}
}

// Handle applies one command
func (c *Controller) Handle(cmd Command) Effect {
	switch cmd {
	case CmdExit:
		c.running = false
	case CmdRefresh:
		if c.refreshing {
			c.message = "refresh already in progress"
			return EffectNone
		}
		c.refreshing = true
		c.message = ""
		return EffectRefresh
	case CmdClear:
		c.cursor = NoSelection
	case CmdNext:
		c.next()
	case CmdPrev:
		c.prev()
	case CmdFirst:
		if len(c.records) > 0 {
			c.cursor = 0
		}
	}
	return EffectNone
}

func (c *Controller) next() {
	n := len(c.records)
	switch {
	case n == 0:
	case c.cursor == NoSelection:
		c.cursor = 0
	case c.cursor < n-1:
		c.cursor++
	case c.opts.Wrap:
		c.cursor = 0
	}
}

func (c *Controller) prev() {
	n := len(c.records)
	switch {
	case n == 0:
	case c.cursor == NoSelection:
		c.cursor = n - 1
	case c.cursor > 0:
		c.cursor--
	case c.opts.Wrap:
		c.cursor = n - 1
	}
}

// Finish installs the result of a refresh and clears the selection
func (c *Controller) Finish(report aggregator.Report) {
	c.refreshing = false
	c.records = report.Records
	c.cursor = NoSelection
	c.warnings = report.Warnings
	c.updated = report.Finished
	switch {
	case report.Resolved:
		c.message = fmt.Sprintf("expanded to %d services", len(report.Records))
	default:
		c.message = ""
	}
}

// SetOptions replaces the list options
func (c *Controller) SetOptions(opts Options) { c.opts = opts }

// Running reports whether the loop should keep going
func (c *Controller) Running() bool { return c.running }

// Refreshing reports whether an aggregation is in flight
func (c *Controller) Refreshing() bool { return c.refreshing }

// Records returns the current list
func (c *Controller) Records() []aggregator.StatusRecord { return c.records }

// Cursor returns the selected index or NoSelection
func (c *Controller) Cursor() int { return c.cursor }

// Selected returns the selected record, if any
func (c *Controller) Selected() (aggregator.StatusRecord, bool) {
	if c.cursor < 0 || c.cursor >= len(c.records) {
		return aggregator.StatusRecord{}, false
	}
	return c.records[c.cursor], true
}

// Warnings returns the warnings of the last refresh
func (c *Controller) Warnings() []string { return c.warnings }

// Updated returns when the last refresh finished
func (c *Controller) Updated() time.Time { return c.updated }

// Message returns the transient status line
func (c *Controller) Message() string { return c.message }
