package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTaskRequest body para POST /api/diesel/tasks.
type CreateTaskRequest struct {
	StationID  string     `json:"station_id" validate:"required"`
	TankerID   string     `json:"tanker_id" validate:"required"`
	SupplierID string     `json:"supplier_id" validate:"required"`
	EmployeeID string     `json:"employee_id"`
	TaskDate   *time.Time `json:"task_date"`
	Notes      string     `json:"notes" validate:"max=2000"`
}

// InvoiceRequest factura del proveedor (etapa loading).
type InvoiceRequest struct {
	Number   string           `json:"number" validate:"required,max=100"`
	Amount   *decimal.Decimal `json:"amount"`
	Quantity *decimal.Decimal `json:"quantity"`
	ImageKey string           `json:"image_key"`
}

// CompartmentRequest cantidad por compartimento (etapa returning).
type CompartmentRequest struct {
	Number   int             `json:"number" validate:"min=1"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TransitionRequest body para POST /api/diesel/tasks/:id/transitions.
// Solo se aceptan los campos de la etapa destino:
//
//	started, at_supplier, at_station: at
//	loading:   at, supplier_pump_id, supplier_pump_before, invoice, evidence
//	returning: at, supplier_pump_after, compartments, evidence
//	unloading: at, destination_tank_id, intake_pump_id, intake_pump_before, evidence
//	completed: at, intake_pump_after, manual_received_quantity, difference_notes, evidence
//	cancelled: at, reason
type TransitionRequest struct {
	Status                 string               `json:"status" validate:"required,oneof=started at_supplier loading returning at_station unloading completed cancelled"`
	At                     *time.Time           `json:"at"`
	SupplierPumpID         string               `json:"supplier_pump_id"`
	SupplierPumpBefore     *decimal.Decimal     `json:"supplier_pump_before"`
	SupplierPumpAfter      *decimal.Decimal     `json:"supplier_pump_after"`
	Invoice                *InvoiceRequest      `json:"invoice" validate:"omitempty"`
	Compartments           []CompartmentRequest `json:"compartments" validate:"omitempty,dive"`
	DestinationTankID      string               `json:"destination_tank_id"`
	IntakePumpID           string               `json:"intake_pump_id"`
	IntakePumpBefore       *decimal.Decimal     `json:"intake_pump_before"`
	IntakePumpAfter        *decimal.Decimal     `json:"intake_pump_after"`
	ManualReceivedQuantity *decimal.Decimal     `json:"manual_received_quantity"`
	DifferenceNotes        string               `json:"difference_notes" validate:"max=2000"`
	Evidence               string               `json:"evidence"`
	Reason                 string               `json:"reason" validate:"max=2000"`
}

// CancelTaskRequest body para POST /api/diesel/tasks/:id/cancel.
type CancelTaskRequest struct {
	Reason string     `json:"reason" validate:"max=2000"`
	At     *time.Time `json:"at"`
}

// TaskFilterRequest query de GET /api/diesel/tasks.
type TaskFilterRequest struct {
	PageRequest
	DateRangeRequest
	StationID  string `query:"station_id"`
	EmployeeID string `query:"employee_id"`
	SupplierID string `query:"supplier_id"`
	Status     string `query:"status" validate:"omitempty,oneof=pending started at_supplier loading returning at_station unloading completed cancelled"`
}

// StageResponse etapa registrada.
type StageResponse struct {
	Status           string    `json:"status"`
	At               time.Time `json:"at"`
	RecordedAt       time.Time `json:"recorded_at"`
	RecordedBy       string    `json:"recorded_by,omitempty"`
	ReadingIDs       []string  `json:"reading_ids,omitempty"`
	AnomalousReading bool      `json:"anomalous_reading"`
	Payload          any       `json:"payload"`
}

// TaskResponse salida de una tarea con la vista plana de sus checkpoints.
type TaskResponse struct {
	ID         string    `json:"id"`
	TaskNumber string    `json:"task_number"`
	StationID  string    `json:"station_id"`
	TaskDate   time.Time `json:"task_date"`
	EmployeeID string    `json:"employee_id"`
	TankerID   string    `json:"tanker_id"`
	SupplierID string    `json:"supplier_id"`
	Status     string    `json:"status"`
	NextStatus string    `json:"next_status,omitempty"`

	StartTime                 *time.Time `json:"start_time,omitempty"`
	ArrivalAtSupplierTime     *time.Time `json:"arrival_at_supplier_time,omitempty"`
	LoadingStartTime          *time.Time `json:"loading_start_time,omitempty"`
	LoadingEndTime            *time.Time `json:"loading_end_time,omitempty"`
	DepartureFromSupplierTime *time.Time `json:"departure_from_supplier_time,omitempty"`
	ArrivalAtStationTime      *time.Time `json:"arrival_at_station_time,omitempty"`
	UnloadingStartTime        *time.Time `json:"unloading_start_time,omitempty"`
	UnloadingEndTime          *time.Time `json:"unloading_end_time,omitempty"`
	CompletionTime            *time.Time `json:"completion_time,omitempty"`

	SupplierPumpID         string               `json:"supplier_pump_id,omitempty"`
	SupplierPumpBefore     *decimal.Decimal     `json:"supplier_pump_reading_before,omitempty"`
	SupplierPumpAfter      *decimal.Decimal     `json:"supplier_pump_reading_after,omitempty"`
	InvoiceNumber          string               `json:"supplier_invoice_number,omitempty"`
	InvoiceAmount          *decimal.Decimal     `json:"supplier_invoice_amount,omitempty"`
	InvoiceQuantity        *decimal.Decimal     `json:"supplier_invoice_quantity,omitempty"`
	Compartments           []CompartmentRequest `json:"compartments,omitempty"`
	IntakePumpID           string               `json:"intake_pump_id,omitempty"`
	IntakePumpBefore       *decimal.Decimal     `json:"intake_pump_reading_before,omitempty"`
	IntakePumpAfter        *decimal.Decimal     `json:"intake_pump_reading_after,omitempty"`
	DestinationTankID      string               `json:"destination_tank_id,omitempty"`
	ManualReceivedQuantity *decimal.Decimal     `json:"manual_received_quantity,omitempty"`
	Evidence               []string             `json:"evidence,omitempty"`

	QuantityFromSupplier      *decimal.Decimal `json:"quantity_from_supplier,omitempty"`
	QuantityReceivedAtStation *decimal.Decimal `json:"quantity_received_at_station,omitempty"`
	QuantityDifference        *decimal.Decimal `json:"quantity_difference,omitempty"`
	DifferenceNotes           string           `json:"difference_notes,omitempty"`
	Discrepancy               bool             `json:"discrepancy"`
	CancelReason              string           `json:"cancel_reason,omitempty"`

	Stages    []StageResponse `json:"stages"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReconciliationResponse salida de GET /api/diesel/tasks/:id/reconciliation.
type ReconciliationResponse struct {
	TaskID                    string           `json:"task_id"`
	TaskNumber                string           `json:"task_number"`
	Status                    string           `json:"status"`
	SupplierDelta             *decimal.Decimal `json:"supplier_delta,omitempty"`
	IntakeDelta               *decimal.Decimal `json:"intake_delta,omitempty"`
	InvoiceQuantity           *decimal.Decimal `json:"invoice_quantity,omitempty"`
	CompartmentsTotal         *decimal.Decimal `json:"compartments_total,omitempty"`
	QuantityFromSupplier      *decimal.Decimal `json:"quantity_from_supplier,omitempty"`
	SupplierSource            string           `json:"supplier_source"`
	QuantityReceivedAtStation *decimal.Decimal `json:"quantity_received_at_station,omitempty"`
	ReceivedSource            string           `json:"received_source"`
	QuantityDifference        *decimal.Decimal `json:"quantity_difference,omitempty"`
	AllowedDifference         *decimal.Decimal `json:"allowed_difference,omitempty"`
	Discrepancy               bool             `json:"discrepancy"`
	NotesRequired             bool             `json:"notes_required"`
	Problem                   string           `json:"problem,omitempty"`
}
