package engine

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine activity.
type Metrics struct {
	Commands      *prometheus.CounterVec
	Transactions  prometheus.Counter
	SearchRescans prometheus.Counter
}

// NewMetrics creates unregistered engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "commands_total",
			Help:      "Commands invoked, by command and result",
		}, []string{"command", "result"}),
		Transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "transactions_applied_total",
			Help:      "Transactions applied to the editor state",
		}),
		SearchRescans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "search_rescans_total",
			Help:      "Full-document search rescans",
		}),
	}
}

// Register registers the metrics with reg. Metrics already registered
// are left in place.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Commands, m.Transactions, m.SearchRescans} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *Metrics) command(id string, applied bool) {
	if m == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "inapplicable"
	}
	m.Commands.WithLabelValues(id, result).Inc()
}

func (m *Metrics) transaction() {
	if m != nil {
		m.Transactions.Inc()
	}
}

func (m *Metrics) rescan() {
	if m != nil {
		m.SearchRescans.Inc()
	}
}
