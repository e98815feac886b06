package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/domain/command"
	"dentistimo/internal/core/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	method string
	err    error

	mu      sync.Mutex
	queries []domain.Query
}

func (s *stubCommand) Respond(_ context.Context, query *domain.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, *query)
	return s.err
}

func (s *stubCommand) GetMethod() string {
	return s.method
}

func (s *stubCommand) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type stubObserver struct {
	mu       sync.Mutex
	handled  []string
	degraded []bool
}

func (o *stubObserver) CommandHandled(method string, degraded bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handled = append(o.handled, method)
	o.degraded = append(o.degraded, degraded)
}

func (o *stubObserver) BreakerStateChanged(_ string, _ service.BreakerState) {}

func testBreakerConfig() service.BreakerConfig {
	return service.BreakerConfig{
		Timeout:               time.Second,
		ErrorThresholdPercent: 10,
		ResetTimeout:          time.Minute,
		Fallback:              domain.DegradedServiceNotice,
	}
}

func TestDispatchInvokesHandler(t *testing.T) {
	cmd := &stubCommand{method: domain.MethodGetOne}

	registry := &command.Registry{}
	registry.Register(cmd)

	m := NewMessage(registry, testBreakerConfig(), nil)

	m.Dispatch(context.Background(), []byte(`{"method":"getOne","id":42}`))

	require.Eventually(t, func() bool { return cmd.calls() == 1 },
		time.Second, 10*time.Millisecond)

	cmd.mu.Lock()
	defer cmd.mu.Unlock()
	assert.Equal(t, domain.MethodGetOne, cmd.queries[0].Method)
	assert.Equal(t, 42, cmd.queries[0].ID)
}

func TestDispatchUnknownMethod(t *testing.T) {
	cmd := &stubCommand{method: domain.MethodGetOne}

	registry := &command.Registry{}
	registry.Register(cmd)

	m := NewMessage(registry, testBreakerConfig(), nil)

	m.Dispatch(context.Background(), []byte(`{"method":"getEverything"}`))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, cmd.calls())
}

func TestDispatchMalformedPayload(t *testing.T) {
	cmd := &stubCommand{method: domain.MethodGetOne}

	registry := &command.Registry{}
	registry.Register(cmd)

	m := NewMessage(registry, testBreakerConfig(), nil)

	m.Dispatch(context.Background(), []byte(`{not json`))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, cmd.calls())
}

func TestDispatchOpensBreakerPerMethod(t *testing.T) {
	failing := &stubCommand{method: domain.MethodGetAll, err: errors.New("store down")}
	healthy := &stubCommand{method: domain.MethodGetOne}

	registry := &command.Registry{}
	registry.Register(failing)
	registry.Register(healthy)

	observer := &stubObserver{}
	m := NewMessage(registry, testBreakerConfig(), observer)

	m.Dispatch(context.Background(), []byte(`{"method":"getAll"}`))
	require.Eventually(t, func() bool {
		observer.mu.Lock()
		defer observer.mu.Unlock()
		return len(observer.handled) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, failing.calls())

	// the getAll breaker is open now, further calls short-circuit
	m.Dispatch(context.Background(), []byte(`{"method":"getAll"}`))
	require.Eventually(t, func() bool {
		observer.mu.Lock()
		defer observer.mu.Unlock()
		return len(observer.handled) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, failing.calls())

	// a failing getAll handler must not degrade getOne
	m.Dispatch(context.Background(), []byte(`{"method":"getOne","id":1}`))
	require.Eventually(t, func() bool { return healthy.calls() == 1 },
		time.Second, 10*time.Millisecond)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	assert.Equal(t, []bool{true, true, false}, observer.degraded)
}
