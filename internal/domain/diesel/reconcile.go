package diesel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// QuantitySource origen de una cantidad conciliada.
type QuantitySource string

const (
	SourceSupplierMeter QuantitySource = "supplier_meter"
	SourceInvoice       QuantitySource = "invoice"
	SourceCompartments  QuantitySource = "compartments"
	SourceIntakeMeter   QuantitySource = "intake_meter"
	SourceManual        QuantitySource = "manual"
	SourceUnknown       QuantitySource = "unknown"
)

// Reconciliation resultado de conciliar una tarea.
type Reconciliation struct {
	SupplierDelta     *decimal.Decimal
	IntakeDelta       *decimal.Decimal
	InvoiceQuantity   *decimal.Decimal
	CompartmentsTotal *decimal.Decimal

	QuantityFromSupplier      *decimal.Decimal
	SupplierSource            QuantitySource
	QuantityReceivedAtStation *decimal.Decimal
	ReceivedSource            QuantitySource
	QuantityDifference        *decimal.Decimal

	// AllowedDifference tolerancia absoluta (Tolerance * QuantityFromSupplier).
	AllowedDifference *decimal.Decimal
	Discrepancy       bool
	NotesRequired     bool
	DifferenceNotes   string
}

// Reconcile calcula las cantidades de la tarea a partir de sus etapas.
// Proveedor: delta de la bomba del proveedor (no anómala) -> factura -> compartimentos.
// Recibido: delta de la bomba de entrada (no anómala) -> cantidad manual; sin ninguna falla con
// ErrUnmeasurable. Si la diferencia excede la tolerancia, o el proveedor no tiene medida,
// exige notas (ErrDiscrepancyUnexplained). El resultado se devuelve también junto al error.
func Reconcile(c entity.Checkpoints, policy Policy) (*Reconciliation, error) {
	r := &Reconciliation{DifferenceNotes: c.DifferenceNotes}
	r.SupplierDelta = Delta(c.SupplierPumpBefore, c.SupplierPumpAfter)
	r.IntakeDelta = Delta(c.IntakePumpBefore, c.IntakePumpAfter)
	if c.Invoice != nil && c.Invoice.Quantity != nil {
		q := *c.Invoice.Quantity
		r.InvoiceQuantity = &q
	}
	if len(c.Compartments) > 0 {
		total := entity.ReturningPayload{Compartments: c.Compartments}.CompartmentsTotal()
		r.CompartmentsTotal = &total
	}

	switch {
	case r.SupplierDelta != nil && !c.SupplierReadingAnomalous:
		r.QuantityFromSupplier, r.SupplierSource = r.SupplierDelta, SourceSupplierMeter
	case r.InvoiceQuantity != nil:
		r.QuantityFromSupplier, r.SupplierSource = r.InvoiceQuantity, SourceInvoice
	case r.CompartmentsTotal != nil:
		r.QuantityFromSupplier, r.SupplierSource = r.CompartmentsTotal, SourceCompartments
	default:
		r.SupplierSource = SourceUnknown
	}

	switch {
	case r.IntakeDelta != nil && !c.IntakeReadingAnomalous:
		r.QuantityReceivedAtStation, r.ReceivedSource = r.IntakeDelta, SourceIntakeMeter
	case c.ManualReceivedQuantity != nil:
		q := *c.ManualReceivedQuantity
		r.QuantityReceivedAtStation, r.ReceivedSource = &q, SourceManual
	default:
		r.ReceivedSource = SourceUnknown
		return r, domain.ErrUnmeasurable
	}

	if r.QuantityFromSupplier == nil {
		r.NotesRequired = true
	} else {
		diff := r.QuantityFromSupplier.Sub(*r.QuantityReceivedAtStation)
		allowed := policy.Tolerance.Mul(*r.QuantityFromSupplier).Abs()
		r.QuantityDifference = &diff
		r.AllowedDifference = &allowed
		r.Discrepancy = diff.Abs().GreaterThan(allowed)
		r.NotesRequired = r.Discrepancy
	}

	if r.NotesRequired && c.DifferenceNotes == "" {
		if r.QuantityDifference == nil {
			return r, fmt.Errorf("%w: cantidad del proveedor desconocida", domain.ErrDiscrepancyUnexplained)
		}
		return r, fmt.Errorf("%w: diferencia %s supera %s",
			domain.ErrDiscrepancyUnexplained, r.QuantityDifference.String(), r.AllowedDifference.String())
	}
	return r, nil
}
