package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDB("select", time.Now(), nil)
		m.AppointmentCreated()
		m.StatusChanged("completed")
		m.Revalidated("/appointments", nil)
		m.CacheLookup(true)
		m.ReminderSent(nil)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "agenda")

	m.AppointmentCreated()
	m.AppointmentCreated()
	m.Revalidated("/appointments", errors.New("redis down"))
	m.ObserveDB("appointments.create", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Revalidations.WithLabelValues("/appointments", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("appointments.create", "success")))
}
