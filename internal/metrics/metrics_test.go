package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAccumulate(t *testing.T) {
	m := New(prometheus.NewRegistry(), "barber")

	m.Booking("created")
	m.Booking("created")
	m.Booking("conflict")
	m.Swept(3, 1)
	m.SweepRun("ok", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Bookings.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues("conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SweptTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRuns.WithLabelValues("ok")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Booking("created")
		m.Transition("confirmed")
		m.SweepRun("ok", time.Second)
		m.Swept(1, 0)
		m.Notification("email", "sent")
	})
}
