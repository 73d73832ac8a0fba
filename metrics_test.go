package etwlog

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsNilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.providerRegistered()
		m.sessionStarted()
		m.sessionRestarted()
		m.providerEnabled()
		m.eventWritten(12)
		m.failed(stageWrite)
		m.providerDisabled()
		m.sessionStopped()
		m.providerUnregistered()
	})
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.providerRegistered()
	m.providerRegistered()
	m.providerUnregistered()
	m.sessionStarted()
	m.sessionRestarted()
	m.providerEnabled()
	m.eventWritten(12)
	m.eventWritten(0)
	m.failed(stageStart)
	m.failed(stageStart)
	m.failed(stageWrite)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.providersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providersEnabled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionRestarts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsWritten))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.bytesWritten))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.failures.WithLabelValues(stageStart)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(stageWrite)))
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	m.failed(stageEnable)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m))

	// Six plain collectors plus one failures series.
	assert.Equal(t, 7, testutil.CollectAndCount(m))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"etwlog_providers_registered",
		"etwlog_sessions_active",
		"etwlog_providers_enabled",
		"etwlog_events_written_total",
		"etwlog_event_bytes_written_total",
		"etwlog_session_restarts_total",
		"etwlog_failures_total",
	}, names)
}
