package provider

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordSuccess("openai/whisper", 2*time.Second)
	m.RecordSuccess("openai/whisper", time.Second)
	m.RecordFailure("openai/chat", "rate_limit_exceeded", 100*time.Millisecond)
	m.RecordInteraction("done", true)
	m.RecordInteraction("done", false)
	m.RecordInteraction("error", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("openai/whisper", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("openai/chat", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("openai/chat", "rate_limit_exceeded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.interactions.WithLabelValues("done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.interactions.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks))
	assert.Equal(t, 2, testutil.CollectAndCount(m.latency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSuccess("openai/whisper", time.Second)
		m.RecordFailure("openai/whisper", "api_error", time.Second)
		m.RecordInteraction("done", true)
	})
}
