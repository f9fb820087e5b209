package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Pinger is a read-only reachability probe against one dependency. Both
// storage clients satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Target pairs a probe with the deployment labeling of the endpoint it
// contacts. Source and Host come from configuration, not from probing.
type Target struct {
	Pinger Pinger
	Source string
	Host   string
}

const DefaultProbeTimeout = 2 * time.Second

// Checker answers whether this deployment's database and cache are
// reachable right now. It holds no state between calls - every check
// re-probes from scratch.
type Checker struct {
	db      Target
	cache   Target
	timeout time.Duration
}

func NewChecker(db, cache Target, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return &Checker{
		db:      db,
		cache:   cache,
		timeout: timeout,
	}
}

// CheckAll probes both dependencies concurrently and derives the overall
// status. It never returns an error: probe failures are captured inside
// the report so the HTTP layer can always render a response.
func (c *Checker) CheckAll(ctx context.Context) Report {
	var report Report
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Database = c.probe(ctx, c.db)
	}()
	go func() {
		defer wg.Done()
		report.Redis = c.probe(ctx, c.cache)
	}()
	wg.Wait()

	report.Status = OverallOK
	if report.Database.Status != StatusOK || report.Redis.Status != StatusOK {
		report.Status = OverallDegraded
	}

	return report
}

// CheckDatabase probes only the database. The cache is never touched.
func (c *Checker) CheckDatabase(ctx context.Context) ServiceStatus {
	return c.probe(ctx, c.db)
}

// CheckCache probes only the cache. The database is never touched.
func (c *Checker) CheckCache(ctx context.Context) ServiceStatus {
	return c.probe(ctx, c.cache)
}

// probe runs a single bounded reachability check. Any fault - connection
// failure, timeout, even a panic inside the client - is converted into a
// ServiceStatus with status=error instead of propagating. A probe that
// ignores cancellation still cannot block the caller past the timeout.
func (c *Checker) probe(ctx context.Context, t Target) ServiceStatus {
	status := ServiceStatus{
		Status: StatusOK,
		Source: t.Source,
		Host:   t.Host,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("probe panic: %v", r)
			}
		}()
		errCh <- t.Pinger.Ping(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			status.Status = StatusError
			status.Error = c.describeError(err)
		}
	case <-ctx.Done():
		status.Status = StatusError
		status.Error = c.describeError(ctx.Err())
	}

	return status
}

func (c *Checker) describeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("probe timed out after %s", c.timeout)
	}
	return err.Error()
}
