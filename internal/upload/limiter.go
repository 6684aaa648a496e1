package upload

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTooManyUploads is returned when no upload slot frees up within the wait
// time. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	DefaultMaxConcurrent = 5
	DefaultMaxWait       = 30 * time.Second
)

// Limiter bounds how many uploads are processed at once. Each upload is still
// sequential inside; the limiter only caps parallel requests.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32

	drainMu sync.Mutex
	drained chan struct{} // closed whenever active drops to zero
}

// NewLimiter allows at most maxConcurrent uploads. Callers that cannot get a
// slot within maxWait receive ErrTooManyUploads.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	l := &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: make(chan struct{}),
	}
	close(l.drained)
	return l
}

// Acquire waits for a slot. On success the returned release func must be
// called exactly once; extra calls are no-ops.
func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyUploads
	}

	l.enter()

	var once sync.Once
	return func() {
		once.Do(l.leave)
	}, nil
}

func (l *Limiter) enter() {
	l.drainMu.Lock()
	if l.active.Add(1) == 1 {
		l.drained = make(chan struct{})
	}
	l.drainMu.Unlock()
}

func (l *Limiter) leave() {
	l.drainMu.Lock()
	if l.active.Add(-1) == 0 {
		close(l.drained)
	}
	l.drainMu.Unlock()
	<-l.slots
}

// Active returns the number of uploads in progress.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no upload is in progress or ctx is done. Used on
// shutdown after the listener has stopped accepting requests.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	l.drainMu.Lock()
	drained := l.drained
	l.drainMu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LimiterStatus is a point-in-time view for health checks.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

func (l *Limiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.Active(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
