package diesel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func meteredCheckpoints(intakeAfter string) entity.Checkpoints {
	return entity.Checkpoints{
		SupplierPumpBefore: dp("1000.0"),
		SupplierPumpAfter:  dp("1250.0"),
		IntakePumpBefore:   dp("500.0"),
		IntakePumpAfter:    dp(intakeAfter),
	}
}

func TestReconcile_DentroDeTolerancia(t *testing.T) {
	r, err := diesel.Reconcile(meteredCheckpoints("748.0"), diesel.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, diesel.SourceSupplierMeter, r.SupplierSource)
	assert.Equal(t, diesel.SourceIntakeMeter, r.ReceivedSource)
	assert.True(t, r.QuantityFromSupplier.Equal(d("250")))
	assert.True(t, r.QuantityReceivedAtStation.Equal(d("248")))
	assert.True(t, r.QuantityDifference.Equal(d("2")))
	assert.True(t, r.AllowedDifference.Equal(d("2.5")))
	assert.False(t, r.Discrepancy)
}

func TestReconcile_DiscrepanciaSinNotas(t *testing.T) {
	r, err := diesel.Reconcile(meteredCheckpoints("730.0"), diesel.DefaultPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDiscrepancyUnexplained)
	assert.True(t, r.Discrepancy)
	assert.True(t, r.QuantityDifference.Equal(d("20")))

	c := meteredCheckpoints("730.0")
	c.DifferenceNotes = "fuga en manguera"
	r, err = diesel.Reconcile(c, diesel.DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, r.Discrepancy)
	assert.True(t, r.QuantityDifference.Equal(d("20")))
}

func TestReconcile_ToleranciaConfigurable(t *testing.T) {
	policy := diesel.DefaultPolicy()
	policy.Tolerance = d("0.1")
	r, err := diesel.Reconcile(meteredCheckpoints("730.0"), policy)
	require.NoError(t, err)
	assert.False(t, r.Discrepancy)
}

func TestReconcile_ProveedorAnomaloUsaFactura(t *testing.T) {
	c := meteredCheckpoints("748.0")
	c.SupplierReadingAnomalous = true
	c.Invoice = &entity.Invoice{Number: "F-1", Quantity: dp("249")}
	r, err := diesel.Reconcile(c, diesel.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, diesel.SourceInvoice, r.SupplierSource)
	assert.True(t, r.QuantityDifference.Equal(d("1")))
}

func TestReconcile_CompartimentosComoUltimoRecurso(t *testing.T) {
	c := entity.Checkpoints{
		Compartments:           []entity.Compartment{{Number: 1, Quantity: d("100")}, {Number: 2, Quantity: d("150")}},
		ManualReceivedQuantity: dp("249"),
	}
	r, err := diesel.Reconcile(c, diesel.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, diesel.SourceCompartments, r.SupplierSource)
	assert.Equal(t, diesel.SourceManual, r.ReceivedSource)
}

func TestReconcile_SinMedidaRecibida(t *testing.T) {
	c := entity.Checkpoints{SupplierPumpBefore: dp("1"), SupplierPumpAfter: dp("2")}
	_, err := diesel.Reconcile(c, diesel.DefaultPolicy())
	assert.ErrorIs(t, err, domain.ErrUnmeasurable)

	c.IntakePumpBefore, c.IntakePumpAfter = dp("10"), dp("20")
	c.IntakeReadingAnomalous = true
	_, err = diesel.Reconcile(c, diesel.DefaultPolicy())
	assert.ErrorIs(t, err, domain.ErrUnmeasurable, "contador de entrada anómalo sin cantidad manual")
}

func TestReconcile_ProveedorDesconocidoExigeNotas(t *testing.T) {
	c := entity.Checkpoints{ManualReceivedQuantity: dp("100")}
	r, err := diesel.Reconcile(c, diesel.DefaultPolicy())
	assert.ErrorIs(t, err, domain.ErrDiscrepancyUnexplained)
	assert.Equal(t, diesel.SourceUnknown, r.SupplierSource)
	assert.Nil(t, r.QuantityDifference)

	c.DifferenceNotes = "proveedor sin factura"
	_, err = diesel.Reconcile(c, diesel.DefaultPolicy())
	assert.NoError(t, err)
}
