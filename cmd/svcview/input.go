package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/juju/ansiterm"

	"github.com/nebula/svcview/internal/registry"
	"github.com/nebula/svcview/internal/storage"
)

var (
	promptColor = ansiterm.Foreground(ansiterm.BrightGreen)
	hintColor   = ansiterm.Foreground(ansiterm.Gray)
)

// lastInput returns the previously accepted input line, or ""
func lastInput(store *storage.Storage) string {
	if store == nil {
		return ""
	}
	entry, err := store.LastInput()
	if err != nil {
		return ""
	}
	return entry.Input
}

// resolveInput picks the service list: the flag when given, otherwise one
// line read from in after a prompt on prompt. An empty line reuses last.
func resolveInput(flagValue, last string, in io.Reader, prompt io.Writer, color bool) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return checkInput(flagValue)
	}

	w := ansiterm.NewWriter(prompt)
	w.SetColorCapable(color)
	if last != "" {
		hintColor.Fprintf(w, "press enter to reuse: %s\n", last)
	}
	hintColor.Fprintf(w, "use %s for every service\n", registry.AllServices)
	promptColor.Fprintf(w, "services> ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		line = last
	}
	return checkInput(line)
}

func checkInput(line string) (string, error) {
	if len(registry.ParseInput(line)) == 0 {
		return "", errNoServices
	}
	return strings.TrimSpace(line), nil
}
