package health

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plexis-cms/plexis/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Checks maps probe names to checks.
type Checks map[string]CheckFunc

// Report is the aggregated readiness result.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Result is the outcome of a single check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Option configures the readiness handler.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	timeout time.Duration
}

// WithTimeout bounds the total time spent running checks. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run executes all checks concurrently and collects their results.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	o := options{timeout: 5 * time.Second, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(&o)
	}

	report := &Report{Status: StatusHealthy}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	report.Checks = make(map[string]Result, len(checks))
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		check := checks[name]
		g.Go(func() error {
			res := Result{Status: StatusHealthy}
			err := check(ctx)
			if err != nil {
				res = Result{Status: StatusUnhealthy, Error: err.Error()}
				o.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			report.Checks[name] = res
			if err != nil {
				report.Status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}
