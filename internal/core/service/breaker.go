package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "halfOpen"
	default:
		return "unknown"
	}
}

const defaultWindowSize = 10

type BreakerConfig struct {
	// Timeout is how long an invocation may take before it counts as a
	// failure. The operation is not aborted, the breaker only stops
	// waiting for it.
	Timeout time.Duration
	// ErrorThresholdPercent is the failure rate over the rolling window
	// at which the breaker opens.
	ErrorThresholdPercent float64
	// ResetTimeout is how long the breaker stays open before allowing a
	// half-open trial invocation.
	ResetTimeout time.Duration
	// WindowSize bounds the rolling outcome window. Zero selects the default.
	WindowSize int
	// Fallback is returned instead of a result while the breaker rejects
	// or absorbs calls.
	Fallback string
	// OnStateChange fires at most once per actual state transition.
	OnStateChange func(from, to BreakerState)
}

// Breaker wraps fallible operations with closed/open/half-open circuit
// breaker semantics. Open short-circuits to the fallback without invoking
// the operation; after ResetTimeout a single trial is let through, and its
// outcome decides whether the circuit closes again.
type Breaker struct {
	cfg BreakerConfig

	mu        sync.Mutex
	state     BreakerState
	announced BreakerState
	window    []bool
	next      int
	filled    int
	openedAt  time.Time
	trial     bool
}

// BreakerResult is the outcome of one Execute call. Degraded results carry
// the fallback value; Err holds the underlying failure for diagnostics and
// is never set on a short-circuited call.
type BreakerResult struct {
	Degraded bool
	Fallback string
	Err      error
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	size := cfg.WindowSize
	if size <= 0 {
		size = defaultWindowSize
	}

	return &Breaker{
		cfg:    cfg,
		window: make([]bool, size),
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs op under the breaker policy. Callers never observe the
// operation's error directly; a degraded result stands in for both a
// rejected and a failed invocation.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) BreakerResult {
	if !b.admit() {
		return BreakerResult{Degraded: true, Fallback: b.cfg.Fallback}
	}

	err := b.await(ctx, op)

	b.mu.Lock()
	defer b.mu.Unlock()

	trial := b.trial
	b.trial = false

	if err != nil {
		b.record(true)

		if trial || b.failureRate() >= b.cfg.ErrorThresholdPercent {
			b.openLocked()
		}

		return BreakerResult{Degraded: true, Fallback: b.cfg.Fallback, Err: err}
	}

	b.record(false)

	if trial {
		// half-open trial succeeded: the circuit closes and failure
		// statistics start over
		b.resetWindow()
		b.setState(BreakerClosed)
	}

	return BreakerResult{}
}

// admit decides whether an invocation may reach the operation, moving the
// breaker from open to half-open once the reset countdown has elapsed.
func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if time.Since(b.openedAt) < b.cfg.ResetTimeout {
			return false
		}
		b.setState(BreakerHalfOpen)
		b.trial = true
		return true
	case BreakerHalfOpen:
		if b.trial {
			// a trial is already in flight, reject until it settles
			return false
		}
		b.trial = true
		return true
	default:
		return true
	}
}

// await waits for op up to the configured timeout. The operation keeps the
// caller's context and may still complete after the breaker stopped
// waiting; timing out only counts it as a failure.
func (b *Breaker) await(ctx context.Context, op func(context.Context) error) error {
	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	timer := time.NewTimer(b.cfg.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("operation exceeded breaker timeout of %s", b.cfg.Timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Breaker) openLocked() {
	b.setState(BreakerOpen)
	b.openedAt = time.Now()
}

func (b *Breaker) record(failure bool) {
	b.window[b.next] = failure
	b.next = (b.next + 1) % len(b.window)
	if b.filled < len(b.window) {
		b.filled++
	}
}

func (b *Breaker) resetWindow() {
	for i := range b.window {
		b.window[i] = false
	}
	b.next = 0
	b.filled = 0
}

func (b *Breaker) failureRate() float64 {
	if b.filled == 0 {
		return 0
	}

	failures := 0
	for i := 0; i < b.filled; i++ {
		if b.window[i] {
			failures++
		}
	}

	return float64(failures) / float64(b.filled) * 100
}

// setState transitions the state machine and announces the change. The
// announcement bookkeeping is per instance and idempotent, a state can
// not be announced twice in a row.
func (b *Breaker) setState(state BreakerState) {
	if b.state == state {
		return
	}

	from := b.state
	b.state = state

	if b.announced == state {
		return
	}
	b.announced = state

	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, state)
	}
}
