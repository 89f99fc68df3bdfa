package service

import (
	"sort"
	"strings"
)

const unitSuffix = ".service"

// unitName maps an operator-supplied name to its systemd unit name
func unitName(name string) string {
	if strings.HasSuffix(name, unitSuffix) {
		return name
	}
	return name + unitSuffix
}

// serviceNames keeps the .service units from a unit listing, strips the
// suffix and returns the names sorted and without repeats.
func serviceNames(units []string) []string {
	seen := make(map[string]struct{}, len(units))
	names := make([]string, 0, len(units))
	for _, u := range units {
		if !strings.HasSuffix(u, unitSuffix) {
			continue
		}
		n := strings.TrimSuffix(u, unitSuffix)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// windowsServiceType renders an SCM service type bitmask
func windowsServiceType(t uint32) string {
	const (
		kernelDriver       = 0x1
		fileSystemDriver   = 0x2
		win32OwnProcess    = 0x10
		win32ShareProcess  = 0x20
		userOwnProcess     = 0x50
		userShareProcess   = 0x60
		interactiveProcess = 0x100
	)

	var base string
	switch t &^ interactiveProcess {
	case kernelDriver:
		base = "Kernel driver"
	case fileSystemDriver:
		base = "File system driver"
	case win32OwnProcess:
		base = "Own process"
	case win32ShareProcess:
		base = "Shared process"
	case userOwnProcess:
		base = "User own process"
	case userShareProcess:
		base = "User shared process"
	case 0:
		return ""
	default:
		base = "Other"
	}
	if t&interactiveProcess != 0 {
		base += " (interactive)"
	}
	return base
}
