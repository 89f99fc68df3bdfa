package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/nebula/svcview/internal/aggregator"
	"github.com/nebula/svcview/internal/service"
)

// NotSpecified is shown for detail fields the service manager left empty
const NotSpecified = "Not specified"

const (
	headerRows   = 3
	minListWidth = 20
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWarn     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleInactive = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
)

// Header carries the host facts shown on the first line
type Header struct {
	Host     string
	Backend  string
	Elevated bool
}

// Draw renders the controller state onto s. It does not call Show.
func Draw(s tcell.Screen, c *Controller, h Header, now time.Time) {
	s.Clear()
	w, ht := s.Size()
	if w <= 0 || ht <= 0 {
		return
	}

	drawHeader(s, c, h, now, w)
	if ht <= headerRows {
		return
	}

	listW := w * 2 / 5
	if listW < minListWidth {
		listW = minListWidth
	}
	if listW > w {
		listW = w
	}

	drawList(s, c, 0, headerRows, listW, ht-headerRows)
	if w-listW > 2 {
		for y := headerRows; y < ht; y++ {
			s.SetContent(listW, y, tcell.RuneVLine, nil, styleDim)
		}
		drawDetail(s, c, listW+2, headerRows, w-listW-2, ht-headerRows)
	}
}

func drawHeader(s tcell.Screen, c *Controller, h Header, now time.Time, w int) {
	x := drawText(s, 0, 0, w, styleTitle, "svcview")
	if h.Host != "" {
		x = drawText(s, x, 0, w-x, styleDim, "  "+h.Host)
	}
	if h.Backend != "" {
		x = drawText(s, x, 0, w-x, styleDim, " ["+h.Backend+"]")
	}
	if !h.Elevated {
		drawText(s, x, 0, w-x, styleWarn, "  unprivileged")
	}

	sum := aggregator.Summarize(c.Records())
	line := fmt.Sprintf("%d services, %d active, %d inactive", sum.Total, sum.Active, sum.Inactive)
	switch {
	case c.Refreshing():
		line += " | refreshing..."
	case !c.Updated().IsZero():
		line += " | updated " + humanize.RelTime(c.Updated(), now, "ago", "from now")
	}
	x = drawText(s, 0, 1, w, styleDefault, line)

	switch {
	case len(c.Warnings()) > 0:
		drawText(s, x, 1, w-x, styleWarn, " | "+strings.Join(c.Warnings(), "; "))
	case c.Message() != "":
		drawText(s, x, 1, w-x, styleDim, " | "+c.Message())
	}

	drawText(s, 0, 2, w, styleDim, KeyHelp)
}

// listOffset returns the first visible row so the cursor stays on screen
func listOffset(cursor, rows int) int {
	if cursor < rows || rows <= 0 {
		return 0
	}
	return cursor - rows + 1
}

func drawList(s tcell.Screen, c *Controller, x0, y0, w, rows int) {
	records := c.Records()
	if len(records) == 0 {
		msg := "no services"
		if c.Refreshing() {
			msg = "loading..."
		}
		drawText(s, x0, y0, w, styleDim, msg)
		return
	}

	off := listOffset(c.Cursor(), rows)
	for i := 0; i < rows && off+i < len(records); i++ {
		idx := off + i
		rec := records[idx]

		st := styleInactive
		if rec.Status == aggregator.Active {
			st = styleActive
		}
		name, nameStyle := rec.Name, styleDefault
		if idx == c.Cursor() {
			nameStyle = nameStyle.Reverse(true)
			st = st.Reverse(true)
			fillRow(s, x0, y0+i, w, nameStyle)
		}

		status := rec.Status.String()
		statusW := runewidth.StringWidth(status)
		nameW := w - statusW - 1
		if nameW < 1 {
			nameW = w
			statusW = 0
		}
		drawText(s, x0, y0+i, nameW, nameStyle, name)
		if statusW > 0 {
			drawText(s, x0+w-statusW, y0+i, statusW, st, status)
		}
	}
}

func drawDetail(s tcell.Screen, c *Controller, x0, y0, w, rows int) {
	rec, ok := c.Selected()
	if !ok {
		drawText(s, x0, y0, w, styleDim, "select a service to see its details")
		return
	}

	y := y0
	for _, f := range detailFields(rec.Detail) {
		if y >= y0+rows {
			return
		}
		drawText(s, x0, y, w, styleLabel, f.label)
		y++
		for _, line := range wrap(f.value, w-2) {
			if y >= y0+rows {
				return
			}
			drawText(s, x0+2, y, w-2, styleDefault, line)
			y++
		}
	}
}

type field struct {
	label string
	value string
}

func detailFields(d service.Detail) []field {
	return []field{
		{"Name", orNotSpecified(d.Name)},
		{"Display name", orNotSpecified(d.DisplayName)},
		{"Executable", orNotSpecified(d.ExecutablePath)},
		{"Description", orNotSpecified(d.Description)},
		{"Type", orNotSpecified(d.ServiceType)},
		{"Account", orNotSpecified(d.Account)},
	}
}

func orNotSpecified(s string) string {
	if s == "" {
		return NotSpecified
	}
	return s
}

// wrap breaks s into lines of at most w display cells
func wrap(s string, w int) []string {
	if w <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
			continue
		}
		rw := runewidth.RuneWidth(r)
		if curW+rw > w && curW > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		cur.WriteRune(r)
		curW += rw
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// drawText writes text clipped to w cells and returns the x after the last cell
func drawText(s tcell.Screen, x, y, w int, style tcell.Style, text string) int {
	end := x + w
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > end {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

func fillRow(s tcell.Screen, x, y, w int, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
