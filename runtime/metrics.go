package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records instruction outcomes and transaction sizes.
type Metrics struct {
	instructions *prometheus.CounterVec
	txAccounts   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokenswap",
			Name:      "instructions_total",
			Help:      "Instructions processed, by program and result.",
		}, []string{"program", "result"}),
		txAccounts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tokenswap",
			Name:      "tx_accounts",
			Help:      "Distinct accounts loaded per transaction.",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.instructions, m.txAccounts)
	}
	return m
}

func (m *Metrics) instruction(program string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.instructions.WithLabelValues(program, result).Inc()
}

func (m *Metrics) accounts(n int) {
	if m == nil {
		return
	}
	m.txAccounts.Observe(float64(n))
}
