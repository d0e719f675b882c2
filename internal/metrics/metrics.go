// Package metrics holds the Prometheus collectors for the screening workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the workflow counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	ExamsGenerated    prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	Invitations       *prometheus.CounterVec
	EventsDispatched  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExamsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "screening",
			Name:      "exams_generated_total",
			Help:      "Exams written for candidates.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Name:      "status_transitions_total",
			Help:      "Candidate status writes by target status.",
		}, []string{"status"}),
		Invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Name:      "invitations_total",
			Help:      "Invitation emails by outcome.",
		}, []string{"outcome"}),
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Name:      "events_dispatched_total",
			Help:      "Document change events by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.ExamsGenerated, m.StatusTransitions, m.Invitations, m.EventsDispatched)
	return m
}

func (m *Metrics) ExamGenerated() {
	if m == nil {
		return
	}
	m.ExamsGenerated.Inc()
}

func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Invitation(outcome string) {
	if m == nil {
		return
	}
	m.Invitations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EventDispatched(kind, outcome string) {
	if m == nil {
		return
	}
	m.EventsDispatched.WithLabelValues(kind, outcome).Inc()
}
