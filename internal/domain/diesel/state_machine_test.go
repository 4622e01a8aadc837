package diesel_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func TestCheckTransition_AvanceEnOrden(t *testing.T) {
	task := taskAt()
	noop, err := diesel.CheckTransition(task, entity.StartedPayload{})
	require.NoError(t, err)
	assert.False(t, noop)
}

func TestCheckTransition_SaltoDeEstadoRechazado(t *testing.T) {
	task := taskAt(entity.StartedPayload{})
	_, err := diesel.CheckTransition(task, entity.LoadingPayload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "started", te.From)
	assert.Equal(t, "loading", te.To)
	assert.Equal(t, "at_supplier", te.Expected)
}

func TestCheckTransition_RetrocesoConOtrosDatos(t *testing.T) {
	at := t0
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{})
	_, err := diesel.CheckTransition(task, entity.StartedPayload{StageTime: entity.StageTime{At: &at}})
	assert.ErrorIs(t, err, domain.ErrAlreadyRecorded)
}

func TestCheckTransition_ReenvioIdenticoEsNoop(t *testing.T) {
	loading := entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1000.0")}
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{}, loading)

	noop, err := diesel.CheckTransition(task, entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1000")})
	require.NoError(t, err)
	assert.True(t, noop)

	_, err = diesel.CheckTransition(task, entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1001")})
	assert.ErrorIs(t, err, domain.ErrAlreadyRecorded)
}

func TestCheckTransition_CancelarDesdePending(t *testing.T) {
	noop, err := diesel.CheckTransition(taskAt(), entity.CancelledPayload{Reason: "x"})
	require.NoError(t, err)
	assert.False(t, noop)
}

func TestCheckTransition_DesdeCompletadaSoloReenvio(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{}, entity.LoadingPayload{},
		entity.ReturningPayload{}, entity.AtStationPayload{}, entity.UnloadingPayload{DestinationTankID: "t1"},
		entity.CompletedPayload{ManualReceivedQuantity: dp("100")})

	noop, err := diesel.CheckTransition(task, entity.AtStationPayload{})
	require.NoError(t, err)
	assert.True(t, noop)

	_, err = diesel.CheckTransition(task, entity.CancelledPayload{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCheckTransition_CanceladaEsTerminal(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.CancelledPayload{Reason: "sin cupo"})
	_, err := diesel.CheckTransition(task, entity.AtSupplierPayload{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	noop, err := diesel.CheckTransition(task, entity.CancelledPayload{Reason: "sin cupo"})
	require.NoError(t, err)
	assert.True(t, noop)
}

func TestCheckTransition_CancelarDesdeCualquierNoTerminal(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{}, entity.LoadingPayload{})
	noop, err := diesel.CheckTransition(task, entity.CancelledPayload{})
	require.NoError(t, err)
	assert.False(t, noop)
}

func TestCheckTransition_LecturasEnPares(t *testing.T) {
	loading := entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1000")}
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{}, loading)

	_, err := diesel.CheckTransition(task, entity.ReturningPayload{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = diesel.CheckTransition(task, entity.ReturningPayload{SupplierPumpAfter: dp("1250")})
	assert.NoError(t, err)
}

func TestCheckTransition_DescargaRequiereTanque(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{}, entity.LoadingPayload{},
		entity.ReturningPayload{}, entity.AtStationPayload{})
	_, err := diesel.CheckTransition(task, entity.UnloadingPayload{})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "destination_tank_id")
}

func TestCheckTransition_HoraAnteriorALaEtapaPrevia(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{})

	before := t0
	_, err := diesel.CheckTransition(task, entity.LoadingPayload{StageTime: entity.StageTime{At: &before}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"at"}, verr.Fields)

	_, err = diesel.CheckTransition(task, entity.CancelledPayload{StageTime: entity.StageTime{At: &before}, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	same := t0.Add(time.Minute)
	noop, err := diesel.CheckTransition(task, entity.LoadingPayload{StageTime: entity.StageTime{At: &same}})
	require.NoError(t, err)
	assert.False(t, noop)
}

func TestCheckTransition_LecturaConMasDeTresDecimales(t *testing.T) {
	task := taskAt(entity.StartedPayload{}, entity.AtSupplierPayload{})

	_, err := diesel.CheckTransition(task, entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1000.1234")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = diesel.CheckTransition(task, entity.LoadingPayload{SupplierPumpID: "sp-1", SupplierPumpBefore: dp("1000.1230")})
	assert.NoError(t, err)
}
