package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err   error
	delay time.Duration // served even if the context is cancelled
	calls int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.err
}

func (f *fakePinger) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

type ctxAwarePinger struct{}

func (ctxAwarePinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type panicPinger struct{}

func (panicPinger) Ping(ctx context.Context) error {
	panic("connection pool poisoned")
}

func target(p Pinger, source, host string) Target {
	return Target{Pinger: p, Source: source, Host: host}
}

func TestCheckAllBothHealthy(t *testing.T) {
	checker := NewChecker(
		target(&fakePinger{}, "local", "localhost"),
		target(&fakePinger{}, "local", "localhost"),
		time.Second,
	)

	report := checker.CheckAll(context.Background())

	assert.Equal(t, OverallOK, report.Status)
	assert.Equal(t, StatusOK, report.Database.Status)
	assert.Equal(t, StatusOK, report.Redis.Status)
	assert.Empty(t, report.Database.Error)
	assert.Empty(t, report.Redis.Error)
}

func TestCheckAllOverallStatusCombinations(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name    string
		dbErr   error
		redisEr error
		want    Overall
	}{
		{"both up", nil, nil, OverallOK},
		{"db down", down, nil, OverallDegraded},
		{"redis down", nil, down, OverallDegraded},
		{"both down", down, down, OverallDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(
				target(&fakePinger{err: tt.dbErr}, "local", "localhost"),
				target(&fakePinger{err: tt.redisEr}, "local", "localhost"),
				time.Second,
			)

			report := checker.CheckAll(context.Background())
			assert.Equal(t, tt.want, report.Status)
		})
	}
}

func TestErrorPresentOnlyWhenStatusError(t *testing.T) {
	checker := NewChecker(
		target(&fakePinger{err: errors.New("connection refused")}, "local", "localhost"),
		target(&fakePinger{}, "local", "localhost"),
		time.Second,
	)

	report := checker.CheckAll(context.Background())

	require.Equal(t, StatusError, report.Database.Status)
	assert.Equal(t, "connection refused", report.Database.Error)

	require.Equal(t, StatusOK, report.Redis.Status)
	assert.Empty(t, report.Redis.Error)
}

func TestFailedProbeDoesNotCorruptTheOther(t *testing.T) {
	checker := NewChecker(
		target(panicPinger{}, "local", "localhost"),
		target(&fakePinger{}, "local", "redis-host"),
		time.Second,
	)

	report := checker.CheckAll(context.Background())

	assert.Equal(t, OverallDegraded, report.Status)
	assert.Equal(t, StatusError, report.Database.Status)
	assert.Contains(t, report.Database.Error, "probe panic")
	assert.Equal(t, StatusOK, report.Redis.Status)
	assert.Equal(t, "redis-host", report.Redis.Host)
}

func TestProbeTimeoutIsBounded(t *testing.T) {
	// This pinger ignores cancellation entirely; the checker must still
	// come back within its own bound.
	stuck := &fakePinger{delay: 500 * time.Millisecond}
	checker := NewChecker(
		target(stuck, "local", "localhost"),
		target(&fakePinger{}, "local", "localhost"),
		20*time.Millisecond,
	)

	start := time.Now()
	report := checker.CheckAll(context.Background())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 300*time.Millisecond, "checker must not wait out a stuck dependency")
	assert.Equal(t, OverallDegraded, report.Status)
	assert.Equal(t, StatusError, report.Database.Status)
	assert.Contains(t, report.Database.Error, "timed out")
}

func TestContextAwareProbeReportsTimeout(t *testing.T) {
	checker := NewChecker(
		target(ctxAwarePinger{}, "local", "localhost"),
		target(&fakePinger{}, "local", "localhost"),
		20*time.Millisecond,
	)

	status := checker.CheckDatabase(context.Background())

	assert.Equal(t, StatusError, status.Status)
	assert.Contains(t, status.Error, "timed out")
}

func TestSourceAndHostIndependentOfOutcome(t *testing.T) {
	checker := NewChecker(
		target(&fakePinger{}, "local", "localhost"),
		target(&fakePinger{err: errors.New("connection refused")}, "managed", "redis.internal.example.com"),
		time.Second,
	)

	report := checker.CheckAll(context.Background())

	// A down managed instance still reports its configured labeling.
	assert.Equal(t, StatusError, report.Redis.Status)
	assert.Equal(t, "managed", report.Redis.Source)
	assert.Equal(t, "redis.internal.example.com", report.Redis.Host)

	assert.Equal(t, "local", report.Database.Source)
	assert.Equal(t, "localhost", report.Database.Host)
}

func TestSingleChecksTouchOnlyTheirDependency(t *testing.T) {
	db := &fakePinger{}
	cache := &fakePinger{}
	checker := NewChecker(
		target(db, "local", "localhost"),
		target(cache, "local", "localhost"),
		time.Second,
	)

	checker.CheckDatabase(context.Background())
	assert.EqualValues(t, 1, db.callCount())
	assert.EqualValues(t, 0, cache.callCount())

	checker.CheckCache(context.Background())
	assert.EqualValues(t, 1, db.callCount())
	assert.EqualValues(t, 1, cache.callCount())
}

func TestEveryCallReprobes(t *testing.T) {
	db := &fakePinger{}
	checker := NewChecker(
		target(db, "local", "localhost"),
		target(&fakePinger{}, "local", "localhost"),
		time.Second,
	)

	checker.CheckDatabase(context.Background())
	checker.CheckDatabase(context.Background())
	checker.CheckDatabase(context.Background())

	assert.EqualValues(t, 3, db.callCount())
}

func TestCancelledRequestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := NewChecker(
		target(ctxAwarePinger{}, "local", "localhost"),
		target(ctxAwarePinger{}, "local", "localhost"),
		time.Second,
	)

	report := checker.CheckAll(ctx)

	// Abandoned probes surface as errors, never as a crash or a hang.
	assert.Equal(t, OverallDegraded, report.Status)
	assert.Equal(t, StatusError, report.Database.Status)
	assert.NotEmpty(t, report.Database.Error)
}
