package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus estado de la tarea de recepción.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusStarted    TaskStatus = "started"
	TaskStatusAtSupplier TaskStatus = "at_supplier"
	TaskStatusLoading    TaskStatus = "loading"
	TaskStatusReturning  TaskStatus = "returning"
	TaskStatusAtStation  TaskStatus = "at_station"
	TaskStatusUnloading  TaskStatus = "unloading"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskFlow orden de avance permitido (cancelled queda fuera del flujo).
var TaskFlow = []TaskStatus{
	TaskStatusPending,
	TaskStatusStarted,
	TaskStatusAtSupplier,
	TaskStatusLoading,
	TaskStatusReturning,
	TaskStatusAtStation,
	TaskStatusUnloading,
	TaskStatusCompleted,
}

// Valid indica si el estado es uno de los conocidos.
func (s TaskStatus) Valid() bool {
	if s == TaskStatusCancelled {
		return true
	}
	for _, st := range TaskFlow {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal completed o cancelled.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Next siguiente estado del flujo; false si es terminal.
func (s TaskStatus) Next() (TaskStatus, bool) {
	for i, st := range TaskFlow {
		if st == s && i+1 < len(TaskFlow) {
			return TaskFlow[i+1], true
		}
	}
	return "", false
}

// ReceivingTask una entrega de cisterna de punta a punta: proveedor -> tanque de la estación.
// Los datos de cada etapa viven en Stages (solo se agregan, nunca se editan);
// los campos de cantidad se fijan al completar la tarea.
type ReceivingTask struct {
	ID         string
	BusinessID string
	StationID  string
	TaskNumber string
	TaskDate   time.Time
	EmployeeID string
	TankerID   string
	SupplierID string
	Status     TaskStatus
	Stages     []StageRecord

	QuantityFromSupplier      *decimal.Decimal
	QuantityReceivedAtStation *decimal.Decimal
	QuantityDifference        *decimal.Decimal
	DifferenceNotes           string
	Discrepancy               bool
	CancelReason              string

	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stage devuelve el registro de una etapa si ya fue registrada.
func (t *ReceivingTask) Stage(status TaskStatus) (*StageRecord, bool) {
	for i := range t.Stages {
		if t.Stages[i].Status == status {
			return &t.Stages[i], true
		}
	}
	return nil, false
}

// Checkpoints vista plana de los datos acumulados en las etapas.
type Checkpoints struct {
	StartTime                 *time.Time
	ArrivalAtSupplierTime     *time.Time
	LoadingStartTime          *time.Time
	LoadingEndTime            *time.Time
	DepartureFromSupplierTime *time.Time
	ArrivalAtStationTime      *time.Time
	UnloadingStartTime        *time.Time
	UnloadingEndTime          *time.Time
	CompletionTime            *time.Time
	CancelledTime             *time.Time

	SupplierPumpID           string
	SupplierPumpBefore       *decimal.Decimal
	SupplierPumpAfter        *decimal.Decimal
	SupplierReadingAnomalous bool
	Invoice                  *Invoice
	Compartments             []Compartment

	IntakePumpID           string
	IntakePumpBefore       *decimal.Decimal
	IntakePumpAfter        *decimal.Decimal
	IntakeReadingAnomalous bool
	DestinationTankID      string

	ManualReceivedQuantity *decimal.Decimal
	DifferenceNotes        string
	Evidence               []string
}

// Checkpoints recorre las etapas registradas en orden.
func (t *ReceivingTask) Checkpoints() Checkpoints {
	var c Checkpoints
	for i := range t.Stages {
		rec := &t.Stages[i]
		at := rec.At()
		switch p := rec.Payload.(type) {
		case StartedPayload:
			c.StartTime = at
		case AtSupplierPayload:
			c.ArrivalAtSupplierTime = at
		case LoadingPayload:
			c.LoadingStartTime = at
			c.SupplierPumpID = p.SupplierPumpID
			c.SupplierPumpBefore = p.SupplierPumpBefore
			c.Invoice = p.Invoice
			c.SupplierReadingAnomalous = c.SupplierReadingAnomalous || rec.AnomalousReading
			c.Evidence = appendEvidence(c.Evidence, p.Evidence)
		case ReturningPayload:
			c.LoadingEndTime = at
			c.DepartureFromSupplierTime = at
			c.SupplierPumpAfter = p.SupplierPumpAfter
			c.Compartments = p.Compartments
			c.SupplierReadingAnomalous = c.SupplierReadingAnomalous || rec.AnomalousReading
			c.Evidence = appendEvidence(c.Evidence, p.Evidence)
		case AtStationPayload:
			c.ArrivalAtStationTime = at
		case UnloadingPayload:
			c.UnloadingStartTime = at
			c.IntakePumpID = p.IntakePumpID
			c.IntakePumpBefore = p.IntakePumpBefore
			c.DestinationTankID = p.DestinationTankID
			c.IntakeReadingAnomalous = c.IntakeReadingAnomalous || rec.AnomalousReading
			c.Evidence = appendEvidence(c.Evidence, p.Evidence)
		case CompletedPayload:
			c.UnloadingEndTime = at
			c.CompletionTime = at
			c.IntakePumpAfter = p.IntakePumpAfter
			c.ManualReceivedQuantity = p.ManualReceivedQuantity
			c.DifferenceNotes = p.DifferenceNotes
			c.IntakeReadingAnomalous = c.IntakeReadingAnomalous || rec.AnomalousReading
			c.Evidence = appendEvidence(c.Evidence, p.Evidence)
		case CancelledPayload:
			c.CancelledTime = at
		}
	}
	return c
}

func appendEvidence(list []string, key string) []string {
	if key == "" {
		return list
	}
	return append(list, key)
}
