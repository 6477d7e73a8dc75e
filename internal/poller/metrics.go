// internal/poller/metrics.go
package poller

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// Metrics holds the coordinator collectors. A nil *Metrics records
// nothing, so tests and tools can skip it.
type Metrics struct {
	cycleSeconds   *prometheus.HistogramVec
	unitsAvailable *prometheus.GaugeVec
	unitsTotal     *prometheus.GaugeVec
	unitFailures   *prometheus.CounterVec
	commands       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycleSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vrf_poll_cycle_seconds",
			Help:    "Wall-clock duration of one poll cycle.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"gateway"}),
		unitsAvailable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrf_units_available",
			Help: "Units that answered the last poll cycle.",
		}, []string{"gateway"}),
		unitsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrf_units_total",
			Help: "Units in the gateway roster.",
		}, []string{"gateway"}),
		unitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrf_unit_read_failures_total",
			Help: "Unit status reads that got no valid response.",
		}, []string{"gateway", "unit"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrf_commands_total",
			Help: "Control commands by operation and outcome.",
		}, []string{"gateway", "op", "result"}),
	}
	reg.MustRegister(m.cycleSeconds, m.unitsAvailable, m.unitsTotal, m.unitFailures, m.commands)
	return m
}

func (m *Metrics) observeCycle(gateway string, d time.Duration, available, total int) {
	if m == nil {
		return
	}
	m.cycleSeconds.WithLabelValues(gateway).Observe(d.Seconds())
	m.unitsAvailable.WithLabelValues(gateway).Set(float64(available))
	m.unitsTotal.WithLabelValues(gateway).Set(float64(total))
}

func (m *Metrics) unitFailed(gateway, unit string) {
	if m == nil {
		return
	}
	m.unitFailures.WithLabelValues(gateway, unit).Inc()
}

func (m *Metrics) command(gateway, op string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(gateway, op, transport.Reason(err)).Inc()
}
