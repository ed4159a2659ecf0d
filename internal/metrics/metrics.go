// Package metrics exposes Prometheus counters for sign-in attempts and gate
// decisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "console"

// Login outcomes.
const (
	LoginSuccess    = "success"
	LoginFailure    = "failure"
	LoginIncomplete = "incomplete"
	LoginThrottled  = "throttled"
	LoginError      = "error"
)

// Metrics holds the console's collectors. A nil *Metrics is a no-op.
type Metrics struct {
	registry      *prometheus.Registry
	loginAttempts *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Credential sign-in attempts by outcome",
		}, []string{"outcome"}),
		gateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Request gate decisions by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveGate(outcome string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// LoginCounter returns the attempts counter for one outcome.
func (m *Metrics) LoginCounter(outcome string) prometheus.Counter {
	return m.loginAttempts.WithLabelValues(outcome)
}

// GateCounter returns the decisions counter for one outcome.
func (m *Metrics) GateCounter(outcome string) prometheus.Counter {
	return m.gateDecisions.WithLabelValues(outcome)
}
