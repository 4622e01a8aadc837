package diesel_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

func TestReceiving_NumeroDeTareaSecuencialPorDia(t *testing.T) {
	f := newFixture(t)
	first := f.newTask(t)
	second := f.newTask(t)

	assert.Equal(t, "RCV-20260310-0001", first.TaskNumber)
	assert.Equal(t, "RCV-20260310-0002", second.TaskNumber)
	assert.Equal(t, entity.TaskStatusPending, first.Status)
	assert.Equal(t, "user-1", first.EmployeeID)
}

func TestReceiving_CrearSinCamposObligatorios(t *testing.T) {
	f := newFixture(t)
	_, err := f.receiving.Create(f.ctx, f.actor, diesel.CreateTaskInput{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"station_id", "tanker_id", "supplier_id"}, verr.Fields)
}

func TestReceiving_FlujoCompletoDentroDeTolerancia(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)

	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	done := f.advance(t, task.ID,
		entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")},
		entity.CompletedPayload{IntakePumpAfter: dp("5248")},
	)

	assert.Equal(t, entity.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.QuantityFromSupplier)
	require.NotNil(t, done.QuantityReceivedAtStation)
	require.NotNil(t, done.QuantityDifference)
	assert.True(t, d("250").Equal(*done.QuantityFromSupplier))
	assert.True(t, d("248").Equal(*done.QuantityReceivedAtStation))
	assert.True(t, d("2").Equal(*done.QuantityDifference))
	assert.False(t, done.Discrepancy)
	assert.Len(t, done.Stages, 7)

	assert.True(t, d("1248").Equal(f.tankLevel(t, "tank-rcv")))
	assert.True(t, d("10250").Equal(f.meterReading(t, "pump-sup")))
	assert.True(t, d("5248").Equal(f.meterReading(t, "pump-in")))

	movs, err := f.ledger.List(f.ctx, business, repository.TankMovementFilter{TaskID: task.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReceiving, movs[0].Type)
	assert.Equal(t, "tank-rcv", movs[0].ToTankID)
	assert.True(t, d("248").Equal(movs[0].Quantity))

	readings, err := f.readings.List(f.ctx, business, repository.PumpReadingFilter{TaskID: task.ID})
	require.NoError(t, err)
	assert.Len(t, readings, 4)
}

func TestReceiving_DiscrepanciaSinNotasNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")})

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("5230")})
	require.ErrorIs(t, err, domain.ErrDiscrepancyUnexplained)

	got, err := f.receiving.Get(f.ctx, business, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusUnloading, got.Status)
	assert.True(t, d("1000").Equal(f.tankLevel(t, "tank-rcv")))
	assert.True(t, d("5000").Equal(f.meterReading(t, "pump-in")))
	readings, err := f.readings.List(f.ctx, business, repository.PumpReadingFilter{TaskID: task.ID})
	require.NoError(t, err)
	assert.Len(t, readings, 3)

	done := f.advance(t, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("5230"), DifferenceNotes: "fuga en manguera"})
	assert.True(t, done.Discrepancy)
	assert.True(t, d("20").Equal(*done.QuantityDifference))
	assert.Equal(t, "fuga en manguera", done.DifferenceNotes)
	assert.True(t, d("1230").Equal(f.tankLevel(t, "tank-rcv")))
}

func TestReceiving_ReenvioIdempotente(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t)
	started := entity.StartedPayload{StageTime: entity.StageTime{At: tp(t0)}}

	f.advance(t, task.ID, started)
	again, err := f.receiving.Transition(f.ctx, f.actor, task.ID, started)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusStarted, again.Status)
	assert.Len(t, again.Stages, 1)

	other := entity.StartedPayload{StageTime: entity.StageTime{At: tp(t0.Add(1))}}
	_, err = f.receiving.Transition(f.ctx, f.actor, task.ID, other)
	assert.ErrorIs(t, err, domain.ErrAlreadyRecorded)
}

func TestReceiving_ReenvioConcurrenteRegistraUnaEtapa(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t)
	started := entity.StartedPayload{StageTime: entity.StageTime{At: tp(t0)}}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, started)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	got, err := f.receiving.Get(f.ctx, business, task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Stages, 1)
}

func TestReceiving_TransicionFueraDeOrden(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t)

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.AtSupplierPayload{})
	var terr *domain.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "pending", terr.From)
	assert.Equal(t, "started", terr.Expected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReceiving_CanceladaEsTerminal(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t)
	f.advance(t, task.ID, entity.StartedPayload{})

	cancelled, err := f.receiving.Cancel(f.ctx, f.actor, task.ID, "cisterna averiada", tp(t0))
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCancelled, cancelled.Status)
	assert.Equal(t, "cisterna averiada", cancelled.CancelReason)

	_, err = f.receiving.Cancel(f.ctx, f.actor, task.ID, "cisterna averiada", tp(t0))
	assert.NoError(t, err)

	_, err = f.receiving.Transition(f.ctx, f.actor, task.ID, entity.AtSupplierPayload{})
	var terr *domain.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Empty(t, terr.Expected)
}

func TestReceiving_LecturaAnomalaDelProveedorUsaFactura(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)

	f.advance(t, task.ID,
		entity.StartedPayload{},
		entity.AtSupplierPayload{},
		entity.LoadingPayload{
			SupplierPumpID:     "pump-sup",
			SupplierPumpBefore: dp("9000"),
			Invoice:            &entity.Invoice{Number: "F-100", Quantity: dp("250")},
		},
		entity.ReturningPayload{SupplierPumpAfter: dp("9250")},
		entity.AtStationPayload{},
		entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")},
	)
	done := f.advance(t, task.ID, entity.CompletedPayload{IntakePumpAfter: dp("5249")})

	assert.True(t, d("250").Equal(*done.QuantityFromSupplier))
	assert.False(t, done.Discrepancy)
	loading, ok := done.Stage(entity.TaskStatusLoading)
	require.True(t, ok)
	assert.True(t, loading.AnomalousReading)
	// las lecturas anómalas no mueven la caché del contador
	assert.True(t, d("10000").Equal(f.meterReading(t, "pump-sup")))

	audit, err := f.receiving.Audit(f.ctx, business, task.ID)
	require.NoError(t, err)
	assert.NoError(t, audit.Problem)
	assert.Equal(t, dieselrules.SourceInvoice, audit.Reconciliation.SupplierSource)
	assert.Equal(t, dieselrules.SourceIntakeMeter, audit.Reconciliation.ReceivedSource)
}

func TestReceiving_ProveedorSinMedidaExigeNotas(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID,
		entity.StartedPayload{},
		entity.AtSupplierPayload{},
		entity.LoadingPayload{},
		entity.ReturningPayload{},
		entity.AtStationPayload{},
		entity.UnloadingPayload{DestinationTankID: "tank-rcv"},
	)

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{ManualReceivedQuantity: dp("500")})
	require.ErrorIs(t, err, domain.ErrDiscrepancyUnexplained)

	done := f.advance(t, task.ID, entity.CompletedPayload{ManualReceivedQuantity: dp("500"), DifferenceNotes: "sin factura"})
	assert.Nil(t, done.QuantityFromSupplier)
	assert.True(t, d("500").Equal(*done.QuantityReceivedAtStation))
	assert.True(t, d("1500").Equal(f.tankLevel(t, "tank-rcv")))
}

func TestReceiving_SinMedidaDeRecepcion(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv"})

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{})
	assert.ErrorIs(t, err, domain.ErrUnmeasurable)
}

func TestReceiving_DescargaExcedeCapacidad(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "tank-rcv", entity.TankRoleReceiving, "1100", "1000")
	f.addMeter(t, "pump-sup", entity.PumpTypeSupplier, "10000")
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)
	f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv"})

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.CompletedPayload{ManualReceivedQuantity: dp("249")})
	require.ErrorIs(t, err, domain.ErrOverCapacity)
	var lerr *domain.LevelError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "tank-rcv", lerr.TankID)
	assert.True(t, d("1000").Equal(f.tankLevel(t, "tank-rcv")))
}

func TestReceiving_DescargaEnTanqueDeGenerador(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-gen"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiving_BombaDeTipoEquivocado(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	task := f.newTask(t)
	f.advance(t, task.ID, entity.StartedPayload{}, entity.AtSupplierPayload{})

	_, err := f.receiving.Transition(f.ctx, f.actor, task.ID,
		entity.LoadingPayload{SupplierPumpID: "pump-in", SupplierPumpBefore: dp("5000")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiving_OtraEmpresaNoVeLaTarea(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t)

	_, err := f.receiving.Get(f.ctx, "biz-2", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiving_ConfiguracionDeOtroNegocioNoRestringe(t *testing.T) {
	f := newFixture(t)
	f.standardStation(t)
	require.NoError(t, f.store.Repos().StationConfigs.Upsert(f.ctx, &entity.StationConfig{
		StationID: station, BusinessID: "biz-2",
	}))
	task := f.newTask(t)
	f.advance(t, task.ID, toAtStation("10000", "10250")...)

	got := f.advance(t, task.ID, entity.UnloadingPayload{DestinationTankID: "tank-rcv", IntakePumpID: "pump-in", IntakePumpBefore: dp("5000")})
	assert.Equal(t, entity.TaskStatusUnloading, got.Status)
}
