package metrics

import (
	"dentistimo/internal/core/service"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus collects dispatch outcomes and breaker states. It satisfies
// handler.Observer.
type Prometheus struct {
	commands     *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func New(registerer prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dentistimo_commands_total",
			Help: "Handled request messages by method and outcome.",
		}, []string{"method", "outcome"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dentistimo_breaker_state",
			Help: "Circuit breaker state per method (0 closed, 1 open, 2 half-open).",
		}, []string{"method"}),
	}

	registerer.MustRegister(p.commands, p.breakerState)

	return p
}

func (p *Prometheus) CommandHandled(method string, degraded bool) {
	outcome := "success"
	if degraded {
		outcome = "degraded"
	}

	p.commands.WithLabelValues(method, outcome).Inc()
}

func (p *Prometheus) BreakerStateChanged(method string, state service.BreakerState) {
	p.breakerState.WithLabelValues(method).Set(float64(state))
}
