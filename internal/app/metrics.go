package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds application-level counters.
type Metrics struct {
	Keys          *prometheus.CounterVec
	MacroRuns     *prometheus.CounterVec
	ConfigReloads *prometheus.CounterVec
}

// NewMetrics creates the application counters.
func NewMetrics() *Metrics {
	return &Metrics{
		Keys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "keys_total",
			Help:      "Key combinations handled, by whether they were bound.",
		}, []string{"bound"}),
		MacroRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "macro_runs_total",
			Help:      "Macro runs, by macro and result.",
		}, []string{"macro", "result"}),
		ConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "config_reloads_total",
			Help:      "Configuration reloads, by result.",
		}, []string{"result"}),
	}
}

// Register adds the counters to reg. Counters already registered are kept.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Keys, m.MacroRuns, m.ConfigReloads} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
