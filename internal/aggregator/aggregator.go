// Package aggregator turns the registered service names into normalized
// status records.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	logging "github.com/nebula/svcview/internal/logger"
	"github.com/nebula/svcview/internal/registry"
	"github.com/nebula/svcview/internal/service"
)

// Status is the normalized running state of a service
type Status int

const (
	Inactive Status = iota
	Active
)

func (s Status) String() string {
	if s == Active {
		return "Active"
	}
	return "Inactive"
}

// StatusRecord is one row of an aggregation
type StatusRecord struct {
	Name   string
	Status Status
	Detail service.Detail
}

// Report is the result of one aggregation pass.
// Records follow the order of the registry snapshot the pass worked on.
type Report struct {
	Records  []StatusRecord
	Warnings []string
	// Resolved is set when the pass expanded the all-services sentinel
	Resolved bool
	Started  time.Time
	Finished time.Time
}

// Aggregator queries an Inspector for every name in a Registry
type Aggregator struct {
	registry  *registry.Registry
	inspector service.Inspector
	logger    *slog.Logger

	mu           sync.RWMutex
	queryTimeout time.Duration

	group singleflight.Group
	now   func() time.Time
}

// New creates an aggregator. A nil logger discards output.
func New(reg *registry.Registry, insp service.Inspector, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{
		registry:  reg,
		inspector: insp,
		logger:    logger,
		now:       time.Now,
	}
}

// SetQueryTimeout bounds every individual inspector call. Zero disables it.
func (a *Aggregator) SetQueryTimeout(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queryTimeout = d
}

func (a *Aggregator) timeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.queryTimeout
}

// Aggregate runs one pass. Callers that arrive while a pass is in flight
// receive that pass's report instead of starting another.
func (a *Aggregator) Aggregate(ctx context.Context) Report {
	v, _, _ := a.group.Do("aggregate", func() (interface{}, error) {
		return a.aggregate(ctx), nil
	})
	return v.(Report)
}

func (a *Aggregator) aggregate(ctx context.Context) Report {
	report := Report{Started: a.now()}

	names := a.registry.Get()
	if registry.Contains(names, registry.AllServices) {
		resolved, err := a.resolveAll(ctx)
		if err != nil {
			msg := fmt.Sprintf("could not enumerate services: %v", err)
			a.logger.Warn("service enumeration failed", "error", err)
			report.Warnings = append(report.Warnings, msg)
			names = nil
		} else {
			report.Resolved = true
			names = resolved
		}
	}
	names = registry.Without(names, registry.AllServices)

	report.Records = make([]StatusRecord, 0, len(names))
	for _, name := range names {
		rec, ok := a.query(ctx, name)
		if ok {
			report.Records = append(report.Records, rec)
		}
	}

	report.Finished = a.now()
	a.logger.Debug("aggregation finished",
		"requested", len(names),
		"records", len(report.Records),
		"took", report.Finished.Sub(report.Started))
	return report
}

// resolveAll replaces the registry contents with every service on the host
// and returns the fresh snapshot.
func (a *Aggregator) resolveAll(ctx context.Context) ([]string, error) {
	all, err := bounded(ctx, a, a.inspector.Enumerate)
	if err != nil {
		return nil, err
	}
	a.registry.Replace(all)
	a.logger.Info("expanded all services", "count", len(all))
	return a.registry.Get(), nil
}

// query builds the record for one name. It reports false when the service
// does not exist or any lookup fails.
func (a *Aggregator) query(ctx context.Context, name string) (StatusRecord, bool) {
	log := a.logger.With("service", name)

	exists, err := bounded(ctx, a, func(ctx context.Context) (bool, error) {
		return a.inspector.Exists(ctx, name)
	})
	if err != nil {
		log.Debug("existence check failed", "error", err)
		return StatusRecord{}, false
	}
	if !exists {
		log.Debug("service not found")
		return StatusRecord{}, false
	}

	running, err := bounded(ctx, a, func(ctx context.Context) (bool, error) {
		return a.inspector.IsRunning(ctx, name)
	})
	if err != nil {
		log.Debug("running check failed", "error", err)
		return StatusRecord{}, false
	}

	detail, err := bounded(ctx, a, func(ctx context.Context) (service.Detail, error) {
		return a.inspector.Detail(ctx, name)
	})
	if err != nil {
		log.Debug("detail lookup failed", "error", err)
		return StatusRecord{}, false
	}

	status := Inactive
	if running {
		status = Active
	}
	return StatusRecord{Name: name, Status: status, Detail: detail}, true
}

// bounded runs one inspector call under the configured query timeout
func bounded[T any](ctx context.Context, a *Aggregator, fn func(context.Context) (T, error)) (T, error) {
	qctx, cancel := a.queryContext(ctx)
	defer cancel()
	return fn(qctx)
}

func (a *Aggregator) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.timeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Summary counts records by status
type Summary struct {
	Total    int
	Active   int
	Inactive int
}

// Summarize counts the records of a pass
func Summarize(records []StatusRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.Status == Active {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s
}
