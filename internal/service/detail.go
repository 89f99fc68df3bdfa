package service

import (
	"strings"
	"unicode/utf8"
)

// Field limits in bytes, one less than the buffers the service APIs fill.
const (
	MaxNameLen        = 255
	MaxDisplayNameLen = 255
	MaxExecPathLen    = 1023
	MaxDescriptionLen = 4191
	MaxServiceTypeLen = 1023
	MaxAccountLen     = 255
)

// Sanitize returns a copy of d with every field valid UTF-8, free of NUL
// bytes and within its length limit.
func (d Detail) Sanitize() Detail {
	return Detail{
		Name:           cleanField(d.Name, MaxNameLen),
		DisplayName:    cleanField(d.DisplayName, MaxDisplayNameLen),
		ExecutablePath: cleanField(d.ExecutablePath, MaxExecPathLen),
		Description:    cleanField(d.Description, MaxDescriptionLen),
		ServiceType:    cleanField(d.ServiceType, MaxServiceTypeLen),
		Account:        cleanField(d.Account, MaxAccountLen),
	}
}

func cleanField(s string, max int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	return truncate(s, max)
}

// truncate cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// trimExtension drops the last dot-suffix, "sshd.service" -> "sshd"
func trimExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
