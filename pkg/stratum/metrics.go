package stratum

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for a Stratum client session, labeled by
// dialect so a host running against several pools (or re-dialing
// under a different dialect) can tell them apart. Grounded on the
// teacher's stratum/metrics.go package-level var+init registration
// pattern.
var (
	stratumConnectsTotal    *prometheus.CounterVec
	stratumDisconnectsTotal *prometheus.CounterVec
	stratumSharesTotal      *prometheus.CounterVec
	stratumCurrentState     *prometheus.GaugeVec
)

func init() {
	stratumConnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratum_client_connects_total",
			Help: "Total number of successful pool connections established",
		},
		[]string{"dialect"},
	)
	stratumDisconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratum_client_disconnects_total",
			Help: "Total number of transitions back to the disconnected state",
		},
		[]string{"dialect"},
	)
	stratumSharesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratum_client_shares_total",
			Help: "Total number of solution submissions by outcome",
		},
		[]string{"dialect", "outcome"}, // outcome: accepted, rejected, stale
	)
	stratumCurrentState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stratum_client_session_state",
			Help: "Current SessionState as an integer (see stratum.SessionState)",
		},
		[]string{"dialect"},
	)

	prometheus.MustRegister(stratumConnectsTotal, stratumDisconnectsTotal, stratumSharesTotal, stratumCurrentState)
}

// sessionMetrics is a dialect-bound view over the package's
// registered vectors, handed to each Session so call sites don't
// repeat label values.
type sessionMetrics struct {
	dialect string
}

func newSessionMetrics(dialect Dialect) sessionMetrics {
	return sessionMetrics{dialect: dialect.String()}
}

func (m sessionMetrics) connected() {
	stratumConnectsTotal.WithLabelValues(m.dialect).Inc()
}

func (m sessionMetrics) disconnected() {
	stratumDisconnectsTotal.WithLabelValues(m.dialect).Inc()
}

func (m sessionMetrics) share(outcome string) {
	stratumSharesTotal.WithLabelValues(m.dialect, outcome).Inc()
}

func (m sessionMetrics) state(s SessionState) {
	stratumCurrentState.WithLabelValues(m.dialect).Set(float64(s))
}
