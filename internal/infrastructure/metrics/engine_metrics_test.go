package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/infrastructure/metrics"
)

func TestEngineMetrics_RegistraContadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewEngineMetrics(reg)

	m.MovementAppended("transfer", 150)
	m.MovementAppended("transfer", 50.5)
	m.MovementRejected("over_capacity")
	m.TaskTransition("completed")
	m.AnomalousReading("intake")
	m.Discrepancy("st-1")

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			values[mf.GetName()] += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, values["diesel_ledger_movements_total"])
	assert.Equal(t, 200.5, values["diesel_ledger_liters_total"])
	assert.Equal(t, 1.0, values["diesel_ledger_rejections_total"])
	assert.Equal(t, 1.0, values["diesel_receiving_transitions_total"])
	assert.Equal(t, 1.0, values["diesel_readings_anomalous_total"])
	assert.Equal(t, 1.0, values["diesel_receiving_discrepancies_total"])
}
