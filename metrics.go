package etwlog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure stages, used as the "stage" label of etwlog_failures_total.
const (
	stageIdentity   = "identity"
	stageProperties = "properties"
	stageRegister   = "register"
	stageStart      = "start"
	stageEnable     = "enable"
	stageWrite      = "write"
)

// Metrics implements prometheus.Collector for the resources and traffic of
// one or more Logs. Share a single Metrics between Logs to watch the
// process-wide session and provider budget.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	providersRegistered prometheus.Gauge
	sessionsActive      prometheus.Gauge
	providersEnabled    prometheus.Gauge

	eventsWritten   prometheus.Counter
	bytesWritten    prometheus.Counter
	sessionRestarts prometheus.Counter
	failures        *prometheus.CounterVec
}

// NewMetrics creates an unregistered collector.
func NewMetrics() *Metrics {
	return &Metrics{
		providersRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etwlog_providers_registered",
			Help: "Number of event providers currently registered.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etwlog_sessions_active",
			Help: "Number of private trace sessions currently started.",
		}),
		providersEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etwlog_providers_enabled",
			Help: "Number of providers currently enabled in a trace session.",
		}),
		eventsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "etwlog_events_written_total",
			Help: "Total number of events accepted by EventWrite.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "etwlog_event_bytes_written_total",
			Help: "Total payload bytes of events accepted by EventWrite.",
		}),
		sessionRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "etwlog_session_restarts_total",
			Help: "Total number of sessions recreated after their name was found in use.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "etwlog_failures_total",
			Help: "Total number of failed tracing calls, by lifecycle stage.",
		}, []string{"stage"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.providersRegistered,
		m.sessionsActive,
		m.providersEnabled,
		m.eventsWritten,
		m.bytesWritten,
		m.sessionRestarts,
		m.failures,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *Metrics) providerRegistered() {
	if m != nil {
		m.providersRegistered.Inc()
	}
}

func (m *Metrics) providerUnregistered() {
	if m != nil {
		m.providersRegistered.Dec()
	}
}

func (m *Metrics) sessionStarted() {
	if m != nil {
		m.sessionsActive.Inc()
	}
}

func (m *Metrics) sessionStopped() {
	if m != nil {
		m.sessionsActive.Dec()
	}
}

func (m *Metrics) sessionRestarted() {
	if m != nil {
		m.sessionRestarts.Inc()
	}
}

func (m *Metrics) providerEnabled() {
	if m != nil {
		m.providersEnabled.Inc()
	}
}

func (m *Metrics) providerDisabled() {
	if m != nil {
		m.providersEnabled.Dec()
	}
}

func (m *Metrics) eventWritten(size int) {
	if m != nil {
		m.eventsWritten.Inc()
		m.bytesWritten.Add(float64(size))
	}
}

func (m *Metrics) failed(stage string) {
	if m != nil {
		m.failures.WithLabelValues(stage).Inc()
	}
}
