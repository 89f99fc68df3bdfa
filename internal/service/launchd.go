package service

import (
	"bufio"
	"sort"
	"strconv"
	"strings"
)

// launchdJob is the subset of `launchctl list <label>` output the inspector reads
type launchdJob struct {
	Label   string
	PID     int
	Program string
}

// parseLaunchdJob parses the plist-like dictionary printed by
// `launchctl list <label>`.
func parseLaunchdJob(output string) launchdJob {
	var job launchdJob
	inArgs := false
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if inArgs {
			if strings.HasPrefix(line, ")") {
				inArgs = false
				continue
			}
			if job.Program == "" {
				job.Program = unquote(line)
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = unquote(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "Label":
			job.Label = unquote(value)
		case "PID":
			if pid, err := strconv.Atoi(strings.TrimSuffix(value, ";")); err == nil {
				job.PID = pid
			}
		case "Program":
			job.Program = unquote(value)
		case "ProgramArguments":
			inArgs = strings.HasPrefix(value, "(")
		}
	}
	return job
}

// parseLaunchdList returns the labels from `launchctl list`, sorted
func parseLaunchdList(output string) []string {
	var labels []string
	scanner := bufio.NewScanner(strings.NewReader(output))

	// Skip header
	scanner.Scan()

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		labels = append(labels, fields[2])
	}
	sort.Strings(labels)
	return labels
}

func unquote(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	return strings.Trim(s, `"`)
}
