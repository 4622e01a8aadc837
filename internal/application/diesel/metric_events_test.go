package diesel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

type countingMetrics struct {
	transitions   map[string]int
	anomalous     int
	discrepancies int
	movements     map[string]int
	rejections    map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		transitions: map[string]int{},
		movements:   map[string]int{},
		rejections:  map[string]int{},
	}
}

func (m *countingMetrics) TaskTransition(to string)               { m.transitions[to]++ }
func (m *countingMetrics) AnomalousReading(string)                { m.anomalous++ }
func (m *countingMetrics) Discrepancy(string)                     { m.discrepancies++ }
func (m *countingMetrics) MovementAppended(typ string, _ float64) { m.movements[typ]++ }
func (m *countingMetrics) MovementRejected(reason string)         { m.rejections[reason]++ }

func TestMetrics_DiscrepanciaSeCuentaUnaVez(t *testing.T) {
	m := newCountingMetrics()
	f := newFixtureWithMetrics(t, m)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")})

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("5230")})
	require.ErrorIs(t, err, domain.ErrDiscrepancyUnexplained)
	assert.Equal(t, 0, m.discrepancies)
	assert.Equal(t, 0, m.movements[string(entity.MovementTypeReceiving)])

	done := f.advance(t, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("5230"), DifferenceNotes: "fuga en manguera"})
	require.True(t, done.Discrepancy)
	assert.Equal(t, 1, m.discrepancies)
	assert.Equal(t, 1, m.transitions[string(entity.TaskStatusCompleted)])
	assert.Equal(t, 1, m.movements[string(entity.MovementTypeReceiving)])
}

func TestMetrics_TransaccionRevertidaNoCuentaAnomalias(t *testing.T) {
	m := newCountingMetrics()
	f := newFixtureWithMetrics(t, m)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")})

	// lectura menor a la línea base y sin cantidad manual: no se puede medir lo recibido
	for i := 0; i < 3; i++ {
		_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("4000")})
		require.ErrorIs(t, err, domain.ErrUnmeasurable)
	}
	assert.Equal(t, 0, m.anomalous)
	assert.Equal(t, 0, m.transitions[string(entity.TaskStatusCompleted)])

	rd, err := f.readings.Record(f.ctx, f.actor, diesel.ReadingInput{
		MeterID: "pump-in", Value: d("4000"), Type: entity.ReadingTypeAfter,
	})
	require.NoError(t, err)
	require.True(t, rd.Anomalous)
	assert.Equal(t, 1, m.anomalous)
}

func TestMetrics_RechazoDelLibroSeCuentaSinMovimiento(t *testing.T) {
	m := newCountingMetrics()
	f := newFixtureWithMetrics(t, m)
	f.addTank(t, "a", entity.TankRoleMain, "1000", "100")

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: "a", Direction: entity.AdjustmentOut, Notes: "merma"},
		Quantity: d("500"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientVolume)
	assert.Equal(t, 1, m.rejections["insufficient_volume"])
	assert.Equal(t, 0, m.movements[string(entity.MovementTypeAdjustment)])
}
