// Package servicetest provides an in-memory service.Inspector for tests.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nebula/svcview/internal/service"
)

// ErrQuery is the default error returned for services marked as failing
var ErrQuery = errors.New("query failed")

// Service describes one fake service
type Service struct {
	Running bool
	Detail  service.Detail
	// Fail makes IsRunning and Detail return ErrQuery
	Fail bool
}

// Fake is a goroutine-safe Inspector backed by a map
type Fake struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string

	EnumerateErr error
	ExistsErr    error
	// Block, when set, is received from before every Exists call
	Block chan struct{}

	enumerateCalls int
	existsCalls    int
	closed         bool
}

// New returns an empty fake
func New() *Fake {
	return &Fake{services: make(map[string]Service)}
}

// Add registers a service; enumeration returns names in insertion order
func (f *Fake) Add(name string, s Service) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[name]; !ok {
		f.order = append(f.order, name)
	}
	if s.Detail.Name == "" {
		s.Detail.Name = name
	}
	f.services[name] = s
	return f
}

// Remove deletes a service
func (f *Fake) Remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.services, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// SetRunning changes the running state of a registered service
func (f *Fake) SetRunning(name string, running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.services[name]
	s.Running = running
	f.services[name] = s
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Exists(ctx context.Context, name string) (bool, error) {
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.ExistsErr != nil {
		return false, f.ExistsErr
	}
	_, ok := f.services[name]
	return ok, nil
}

func (f *Fake) IsRunning(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[name]
	if !ok || s.Fail {
		return false, ErrQuery
	}
	return s.Running, nil
}

func (f *Fake) Detail(_ context.Context, name string) (service.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[name]
	if !ok || s.Fail {
		return service.Detail{}, ErrQuery
	}
	return s.Detail, nil
}

func (f *Fake) Enumerate(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enumerateCalls++
	if f.EnumerateErr != nil {
		return nil, f.EnumerateErr
	}
	return append([]string(nil), f.order...), nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// EnumerateCalls returns how many times Enumerate ran
func (f *Fake) EnumerateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enumerateCalls
}

// ExistsCalls returns how many times Exists ran
func (f *Fake) ExistsCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existsCalls
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Names returns the registered names, sorted
func (f *Fake) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := append([]string(nil), f.order...)
	sort.Strings(names)
	return names
}

var _ service.Inspector = (*Fake)(nil)
