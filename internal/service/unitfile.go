package service

import (
	"bytes"
	"fmt"

	"github.com/coreos/go-systemd/v22/unit"
)

// maxUnitLine is the longest line the unit parser accepts
const maxUnitLine = unit.SYSTEMD_LINE_MAX - 1

// unitFile holds the fields read from a systemd unit file and its drop-ins
type unitFile struct {
	Description string
	Type        string
	ExecStart   string
	User        string
}

// apply layers the [Unit] and [Service] options of one unit file or drop-in
// over uf. Later assignments override earlier ones, and an empty ExecStart=
// clears the command list as systemd does. uf is left untouched when data
// does not parse.
func (uf *unitFile) apply(data []byte) error {
	opts, err := unit.DeserializeOptions(bytes.NewReader(clampLines(data)))
	if err != nil {
		return fmt.Errorf("failed to parse unit file: %w", err)
	}

	for _, opt := range opts {
		switch opt.Section {
		case "Unit":
			if opt.Name == "Description" {
				uf.Description = opt.Value
			}
		case "Service":
			switch opt.Name {
			case "Type":
				uf.Type = opt.Value
			case "User":
				uf.User = opt.Value
			case "ExecStart":
				if opt.Value == "" {
					uf.ExecStart = ""
				} else if uf.ExecStart == "" {
					uf.ExecStart = opt.Value
				}
			}
		}
	}
	return nil
}

// clampLines cuts lines longer than the parser accepts. The kept prefix is
// still longer than any Detail field.
func clampLines(data []byte) []byte {
	if len(data) <= maxUnitLine {
		return data
	}
	lines := bytes.SplitAfter(data, []byte("\n"))
	for i, line := range lines {
		body := bytes.TrimRight(line, "\r\n")
		if len(body) <= maxUnitLine {
			continue
		}
		// a cut line must not turn into a continuation
		cut := bytes.TrimRight(body[:maxUnitLine:maxUnitLine], `\`)
		lines[i] = append(cut, line[len(body):]...)
	}
	return bytes.Join(lines, nil)
}
