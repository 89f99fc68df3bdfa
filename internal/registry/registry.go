// Package registry holds the ordered set of service names an aggregation
// pass works on.
package registry

import (
	"strings"
	"sync"
)

// AllServices is the sentinel name that expands to every service the host
// knows about.
const AllServices = ":all_services"

// Registry is a mutex-guarded ordered list of service names.
// The zero value is an empty registry ready for use.
type Registry struct {
	mu    sync.Mutex
	names []string
}

// New creates a registry holding names in the given order
func New(names ...string) *Registry {
	r := &Registry{}
	r.Set(names)
	return r
}

// Set replaces the contents with a copy of names
func (r *Registry) Set(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append([]string(nil), names...)
}

// Get returns a snapshot of the current names
func (r *Registry) Get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// Replace swaps the contents for names and returns what was there before.
func (r *Registry) Replace(names []string) []string {
	next := append([]string(nil), names...)

	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.names
	r.names = next
	return prev
}

// HasSentinel reports whether AllServices is currently registered
func (r *Registry) HasSentinel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Contains(r.names, AllServices)
}

// Len returns the number of registered names
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

// Contains reports whether name is in names
func Contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Without returns names with every occurrence of name removed.
func Without(names []string, name string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// ParseInput turns an operator line like "sshd, cron" into an ordered list of
// names. Empty tokens and repeats are dropped; the first occurrence wins.
func ParseInput(line string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.EqualFold(tok, AllServices) {
			tok = AllServices
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		names = append(names, tok)
	}
	return names
}
