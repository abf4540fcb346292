package poller

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchwatch_sweeps_total",
		Help: "Completed poll sweeps.",
	})
	entriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchwatch_sweep_entries_total",
		Help: "Per-subscription sweep outcomes.",
	}, []string{"outcome"})
	sweepSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchwatch_sweep_duration_seconds",
		Help:    "Wall time of one full sweep.",
		Buckets: prometheus.DefBuckets,
	})
)

// Outcome labels one subscription's fate within a sweep.
type Outcome string

const (
	OutcomeNoActiveMatch Outcome = "no_active_match"
	OutcomeSent          Outcome = "sent"
	OutcomeEdited        Outcome = "edited"
	OutcomeFetchFailed   Outcome = "fetch_failed"
	OutcomeErrored       Outcome = "errored"
)

type sweepMetrics struct {
	mu sync.Mutex

	totalSelected int
	idle          int
	sent          int
	edited        int
	fetchFailed   int
	errored       int
}

func (m *sweepMetrics) observe(o Outcome) {
	entriesTotal.WithLabelValues(string(o)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	switch o {
	case OutcomeNoActiveMatch:
		m.idle++
	case OutcomeSent:
		m.sent++
	case OutcomeEdited:
		m.edited++
	case OutcomeFetchFailed:
		m.fetchFailed++
	case OutcomeErrored:
		m.errored++
	}
}

func (m *sweepMetrics) logArgs() []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := make([]any, 0)
	if m.sent != 0 {
		args = append(args, "sent", m.sent)
	}
	if m.edited != 0 {
		args = append(args, "edited", m.edited)
	}
	if m.idle != 0 {
		args = append(args, "no_active_match", m.idle)
	}
	if m.fetchFailed != 0 {
		args = append(args, "fetch_failed", m.fetchFailed)
	}
	if m.errored != 0 {
		args = append(args, "errored", m.errored)
	}
	return args
}
