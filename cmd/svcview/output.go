package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/ansiterm"

	"github.com/nebula/svcview/internal/aggregator"
	"github.com/nebula/svcview/internal/storage"
	"github.com/nebula/svcview/internal/ui"
)

var statusColor = map[aggregator.Status]*ansiterm.Context{
	aggregator.Active:   ansiterm.Foreground(ansiterm.Green),
	aggregator.Inactive: ansiterm.Foreground(ansiterm.BrightRed),
}

var warnColor = ansiterm.Foreground(ansiterm.Yellow)

// printReport writes one aggregation as an aligned table
func printReport(out io.Writer, report aggregator.Report, color bool) error {
	tw := ansiterm.NewTabWriter(out, 0, 8, 2, ' ', 0)
	tw.SetColorCapable(color)

	fmt.Fprintln(tw, "NAME\tSTATUS\tTYPE\tACCOUNT\tEXECUTABLE")
	for _, rec := range report.Records {
		fmt.Fprintf(tw, "%s\t", rec.Name)
		statusColor[rec.Status].Fprintf(tw, "%s", rec.Status)
		fmt.Fprintf(tw, "\t%s\t%s\t%s\n",
			orNotSpecified(rec.Detail.ServiceType),
			orNotSpecified(rec.Detail.Account),
			orNotSpecified(rec.Detail.ExecutablePath))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	w := ansiterm.NewWriter(out)
	w.SetColorCapable(color)
	for _, warn := range report.Warnings {
		warnColor.Fprintf(w, "warning: %s\n", warn)
	}
	sum := aggregator.Summarize(report.Records)
	_, err := fmt.Fprintf(out, "%d services, %d active, %d inactive\n", sum.Total, sum.Active, sum.Inactive)
	return err
}

// printHistory lists past inputs, newest first. total is the number of
// stored entries, which may exceed len(entries).
func printHistory(out io.Writer, entries []storage.InputEntry, total int, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no history")
		return err
	}
	tw := ansiterm.NewTabWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSERVICES")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", humanize.RelTime(e.Timestamp, now, "ago", "from now"), e.Input)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if total > len(entries) {
		_, err := fmt.Fprintf(out, "showing %d of %d entries\n", len(entries), total)
		return err
	}
	return nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return ui.NotSpecified
	}
	return s
}
