package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {

	// Counters
	alertsCreated     *prometheus.CounterVec // category
	alertTransitions  *prometheus.CounterVec // status
	responsesCreated  *prometheus.CounterVec // response_type
	responsesRejected *prometheus.CounterVec // reason
	confirmations     *prometheus.CounterVec // result
	pointsAwarded     prometheus.Counter
	alertsPurged      *prometheus.CounterVec // category
	sweepFailures     *prometheus.CounterVec // category
	notifications     *prometheus.CounterVec // channel, status

	// Histograms
	sweepDuration prometheus.Histogram
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {

	m := &Metrics{
		alertsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_alerts_created_total",
				Help: "Total number of SOS alerts raised",
			},
			[]string{"category"},
		),
		alertTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_alert_transitions_total",
				Help: "Alert lifecycle transitions out of ACTIVE",
			},
			[]string{"status"},
		),
		responsesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_responses_created_total",
				Help: "Responses registered against alerts",
			},
			[]string{"response_type"},
		),
		responsesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_responses_rejected_total",
				Help: "Respond calls rejected by the coordinator",
			},
			[]string{"reason"},
		),
		confirmations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_confirmations_total",
				Help: "Confirmation attempts by outcome",
			},
			[]string{"result"},
		),
		pointsAwarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sos_points_awarded_total",
				Help: "Leaderboard points released by confirmations",
			},
		),
		alertsPurged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_alerts_purged_total",
				Help: "Alerts deleted by the retention sweep",
			},
			[]string{"category"},
		),
		sweepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_sweep_failures_total",
				Help: "Retention sweep units that failed",
			},
			[]string{"category"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sos_notifications_total",
				Help: "Outbound notifications by channel and status",
			},
			[]string{"channel", "status"},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "sos_sweep_duration_seconds",
				Help: "Time taken by one retention sweep",
			},
		),
	}

	reg.MustRegister(
		m.alertsCreated,
		m.alertTransitions,
		m.responsesCreated,
		m.responsesRejected,
		m.confirmations,
		m.pointsAwarded,
		m.alertsPurged,
		m.sweepFailures,
		m.notifications,
		m.sweepDuration,
	)

	return m
}

func (m *Metrics) IncAlertsCreated(category string) {
	m.alertsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) IncAlertTransition(status string) {
	m.alertTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncResponsesCreated(responseType string) {
	m.responsesCreated.WithLabelValues(responseType).Inc()
}

func (m *Metrics) IncResponsesRejected(reason string) {
	m.responsesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncConfirmations(result string) {
	m.confirmations.WithLabelValues(result).Inc()
}

func (m *Metrics) AddPointsAwarded(points int64) {
	m.pointsAwarded.Add(float64(points))
}

func (m *Metrics) AddAlertsPurged(category string, n int64) {
	m.alertsPurged.WithLabelValues(category).Add(float64(n))
}

func (m *Metrics) IncSweepFailures(category string) {
	m.sweepFailures.WithLabelValues(category).Inc()
}

func (m *Metrics) IncNotifications(channel, status string) {
	m.notifications.WithLabelValues(channel, status).Inc()
}

func (m *Metrics) ObserveSweepDuration(seconds float64) {
	m.sweepDuration.Observe(seconds)
}
