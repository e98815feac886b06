package handler

import (
	"context"
	"encoding/json"
	"sync"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"
	"dentistimo/internal/core/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Observer receives dispatch outcomes and breaker transitions, typically
// for a metrics backend. A nil Observer disables reporting.
type Observer interface {
	CommandHandled(method string, degraded bool)
	BreakerStateChanged(method string, state service.BreakerState)
}

// Message dispatches inbound broker messages to command handlers. Every
// method gets its own persistent circuit breaker, so one failing handler
// class never degrades the others.
type Message struct {
	registry port.CommandRegistry
	cfg      service.BreakerConfig
	observer Observer

	mu       sync.Mutex
	breakers map[string]*service.Breaker
}

func NewMessage(registry port.CommandRegistry, cfg service.BreakerConfig, observer Observer) *Message {
	return &Message{
		registry: registry,
		cfg:      cfg,
		observer: observer,
		breakers: make(map[string]*service.Breaker),
	}
}

// Handle is the paho message callback for the request topic.
func (m *Message) Handle(_ mqtt.Client, msg mqtt.Message) {
	m.Dispatch(context.Background(), msg.Payload())
}

// Dispatch parses a raw request payload and runs the matching handler
// asynchronously under its breaker. Malformed payloads and unrecognized
// methods are logged and dropped; neither reaches a breaker.
func (m *Message) Dispatch(ctx context.Context, payload []byte) {
	var query domain.Query
	if err := json.Unmarshal(payload, &query); err != nil {
		log.Debug().Err(err).Msg("discarding malformed request message")
		return
	}

	cmd, err := m.registry.Get(query.Method)
	if err != nil {
		log.Debug().Str("method", query.Method).Msg("invalid method")
		return
	}

	breaker := m.breakerFor(query.Method)

	go func() {
		result := breaker.Execute(ctx, func(ctx context.Context) error {
			return cmd.Respond(ctx, &query)
		})

		if result.Degraded {
			log.Warn().Str("method", query.Method).Err(result.Err).
				Str("notice", result.Fallback).Msg("degraded service response")
		}

		if m.observer != nil {
			m.observer.CommandHandled(query.Method, result.Degraded)
		}
	}()
}

func (m *Message) breakerFor(method string) *service.Breaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if breaker, ok := m.breakers[method]; ok {
		return breaker
	}

	cfg := m.cfg
	cfg.OnStateChange = func(from, to service.BreakerState) {
		log.Info().Str("method", method).Stringer("from", from).Stringer("to", to).
			Msg("circuit breaker state changed")

		if m.observer != nil {
			m.observer.BreakerStateChanged(method, to)
		}
	}

	breaker := service.NewBreaker(cfg)
	m.breakers[method] = breaker

	return breaker
}
