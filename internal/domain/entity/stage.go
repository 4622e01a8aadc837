package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
)

// StagePayload datos que acompañan una transición. Cada estado destino tiene su propio tipo.
type StagePayload interface {
	Status() TaskStatus
	When() *time.Time
	Validate() error
}

// StageTime hora explícita de la etapa; si es nil se usa la hora de registro.
type StageTime struct {
	At *time.Time `json:"at,omitempty"`
}

func (s StageTime) When() *time.Time { return s.At }

// Invoice datos de la factura del proveedor.
type Invoice struct {
	Number   string           `json:"number"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	ImageKey string           `json:"image_key,omitempty"`
}

// Compartment cantidad cargada en un compartimento de la cisterna.
type Compartment struct {
	Number   int             `json:"number"`
	Quantity decimal.Decimal `json:"quantity"`
}

type StartedPayload struct {
	StageTime
}

func (StartedPayload) Status() TaskStatus { return TaskStatusStarted }
func (StartedPayload) Validate() error    { return nil }

type AtSupplierPayload struct {
	StageTime
}

func (AtSupplierPayload) Status() TaskStatus { return TaskStatusAtSupplier }
func (AtSupplierPayload) Validate() error    { return nil }

// LoadingPayload inicio de carga: lectura inicial de la bomba del proveedor y factura.
type LoadingPayload struct {
	StageTime
	SupplierPumpID     string           `json:"supplier_pump_id,omitempty"`
	SupplierPumpBefore *decimal.Decimal `json:"supplier_pump_before,omitempty"`
	Evidence           string           `json:"evidence,omitempty"`
	Invoice            *Invoice         `json:"invoice,omitempty"`
}

func (LoadingPayload) Status() TaskStatus { return TaskStatusLoading }

func (p LoadingPayload) Validate() error {
	if (p.SupplierPumpID == "") != (p.SupplierPumpBefore == nil) {
		return domain.InvalidFields("supplier_pump_id", "supplier_pump_before")
	}
	if !validAmount(p.SupplierPumpBefore) {
		return domain.InvalidFields("supplier_pump_before")
	}
	if p.Invoice != nil {
		if p.Invoice.Number == "" {
			return domain.InvalidFields("invoice.number")
		}
		if p.Invoice.Quantity != nil && (!p.Invoice.Quantity.IsPositive() || !FitsScale(*p.Invoice.Quantity)) {
			return domain.InvalidFields("invoice.quantity")
		}
		if p.Invoice.Amount != nil && p.Invoice.Amount.IsNegative() {
			return domain.InvalidFields("invoice.amount")
		}
	}
	return nil
}

// ReturningPayload fin de carga y salida del proveedor.
type ReturningPayload struct {
	StageTime
	SupplierPumpAfter *decimal.Decimal `json:"supplier_pump_after,omitempty"`
	Evidence          string           `json:"evidence,omitempty"`
	Compartments      []Compartment    `json:"compartments,omitempty"`
}

func (ReturningPayload) Status() TaskStatus { return TaskStatusReturning }

func (p ReturningPayload) Validate() error {
	if !validAmount(p.SupplierPumpAfter) {
		return domain.InvalidFields("supplier_pump_after")
	}
	seen := make(map[int]bool, len(p.Compartments))
	for _, c := range p.Compartments {
		if c.Number <= 0 || seen[c.Number] || !validAmount(&c.Quantity) {
			return domain.InvalidFields("compartments")
		}
		seen[c.Number] = true
	}
	return nil
}

// CompartmentsTotal suma de lo cargado por compartimento.
func (p ReturningPayload) CompartmentsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Compartments {
		total = total.Add(c.Quantity)
	}
	return total
}

type AtStationPayload struct {
	StageTime
}

func (AtStationPayload) Status() TaskStatus { return TaskStatusAtStation }
func (AtStationPayload) Validate() error    { return nil }

// UnloadingPayload inicio de descarga: tanque destino y lectura inicial de la bomba de entrada.
type UnloadingPayload struct {
	StageTime
	DestinationTankID string           `json:"destination_tank_id"`
	IntakePumpID      string           `json:"intake_pump_id,omitempty"`
	IntakePumpBefore  *decimal.Decimal `json:"intake_pump_before,omitempty"`
	Evidence          string           `json:"evidence,omitempty"`
}

func (UnloadingPayload) Status() TaskStatus { return TaskStatusUnloading }

func (p UnloadingPayload) Validate() error {
	if p.DestinationTankID == "" {
		return domain.InvalidFields("destination_tank_id")
	}
	if (p.IntakePumpID == "") != (p.IntakePumpBefore == nil) {
		return domain.InvalidFields("intake_pump_id", "intake_pump_before")
	}
	if !validAmount(p.IntakePumpBefore) {
		return domain.InvalidFields("intake_pump_before")
	}
	return nil
}

// CompletedPayload fin de descarga. ManualReceivedQuantity (varilla) solo se usa sin bomba de entrada.
type CompletedPayload struct {
	StageTime
	IntakePumpAfter        *decimal.Decimal `json:"intake_pump_after,omitempty"`
	ManualReceivedQuantity *decimal.Decimal `json:"manual_received_quantity,omitempty"`
	DifferenceNotes        string           `json:"difference_notes,omitempty"`
	Evidence               string           `json:"evidence,omitempty"`
}

func (CompletedPayload) Status() TaskStatus { return TaskStatusCompleted }

func (p CompletedPayload) Validate() error {
	if !validAmount(p.IntakePumpAfter) {
		return domain.InvalidFields("intake_pump_after")
	}
	if !validAmount(p.ManualReceivedQuantity) {
		return domain.InvalidFields("manual_received_quantity")
	}
	return nil
}

type CancelledPayload struct {
	StageTime
	Reason string `json:"reason,omitempty"`
}

func (CancelledPayload) Status() TaskStatus { return TaskStatusCancelled }
func (CancelledPayload) Validate() error    { return nil }

// StageRecord etapa registrada de una tarea.
type StageRecord struct {
	Status           TaskStatus
	Payload          StagePayload
	RecordedAt       time.Time
	RecordedBy       string
	ReadingIDs       []string
	AnomalousReading bool
}

// At hora efectiva de la etapa.
func (r *StageRecord) At() *time.Time {
	if at := r.Payload.When(); at != nil {
		return at
	}
	at := r.RecordedAt
	return &at
}

type stageEnvelope struct {
	Status           TaskStatus      `json:"status"`
	Payload          json.RawMessage `json:"payload"`
	RecordedAt       time.Time       `json:"recorded_at"`
	RecordedBy       string          `json:"recorded_by,omitempty"`
	ReadingIDs       []string        `json:"reading_ids,omitempty"`
	AnomalousReading bool            `json:"anomalous_reading,omitempty"`
}

func (r StageRecord) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stageEnvelope{
		Status:           r.Status,
		Payload:          raw,
		RecordedAt:       r.RecordedAt,
		RecordedBy:       r.RecordedBy,
		ReadingIDs:       r.ReadingIDs,
		AnomalousReading: r.AnomalousReading,
	})
}

func (r *StageRecord) UnmarshalJSON(data []byte) error {
	var env stageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	payload, err := DecodeStagePayload(env.Status, env.Payload)
	if err != nil {
		return err
	}
	*r = StageRecord{
		Status:           env.Status,
		Payload:          payload,
		RecordedAt:       env.RecordedAt,
		RecordedBy:       env.RecordedBy,
		ReadingIDs:       env.ReadingIDs,
		AnomalousReading: env.AnomalousReading,
	}
	return nil
}

// DecodeStagePayload decodifica el payload según el estado destino.
func DecodeStagePayload(status TaskStatus, raw []byte) (StagePayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = []byte("{}")
	}
	var (
		payload StagePayload
		err     error
	)
	switch status {
	case TaskStatusStarted:
		var p StartedPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusAtSupplier:
		var p AtSupplierPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusLoading:
		var p LoadingPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusReturning:
		var p ReturningPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusAtStation:
		var p AtStationPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusUnloading:
		var p UnloadingPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusCompleted:
		var p CompletedPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case TaskStatusCancelled:
		var p CancelledPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: estado %q sin payload", domain.ErrInvalidInput, status)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: payload de %s: %v", domain.ErrInvalidInput, status, err)
	}
	return payload, nil
}

// SamePayload compara dos payloads por su contenido (instantes de tiempo por Equal,
// decimales por valor).
func SamePayload(a, b StagePayload) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Status() != b.Status() {
		return false
	}
	wa, wb := a.When(), b.When()
	if (wa == nil) != (wb == nil) || (wa != nil && !wa.Equal(*wb)) {
		return false
	}
	ja, err := json.Marshal(withoutTime(a))
	if err != nil {
		return false
	}
	jb, err := json.Marshal(withoutTime(b))
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

func withoutTime(p StagePayload) StagePayload {
	switch v := p.(type) {
	case StartedPayload:
		v.At = nil
		return v
	case AtSupplierPayload:
		v.At = nil
		return v
	case LoadingPayload:
		v.At = nil
		return v
	case ReturningPayload:
		v.At = nil
		return v
	case AtStationPayload:
		v.At = nil
		return v
	case UnloadingPayload:
		v.At = nil
		return v
	case CompletedPayload:
		v.At = nil
		return v
	case CancelledPayload:
		v.At = nil
		return v
	}
	return p
}
