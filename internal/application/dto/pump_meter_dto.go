package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePumpMeterRequest body para POST /api/diesel/pump-meters.
type CreatePumpMeterRequest struct {
	StationID      string          `json:"station_id" validate:"required"`
	Code           string          `json:"code" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=200"`
	Type           string          `json:"type" validate:"required,oneof=supplier intake output"`
	SerialNumber   string          `json:"serial_number" validate:"max=100"`
	SupplierID     string          `json:"supplier_id"`
	InitialReading decimal.Decimal `json:"initial_reading"`
}

// UpdatePumpMeterRequest metadatos editables; la lectura nunca se edita aquí.
type UpdatePumpMeterRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=100"`
	SupplierID   *string `json:"supplier_id"`
	IsActive     *bool   `json:"is_active"`
}

// PumpMeterFilterRequest query de GET /api/diesel/pump-meters.
type PumpMeterFilterRequest struct {
	StationID  string `query:"station_id"`
	Type       string `query:"type" validate:"omitempty,oneof=supplier intake output"`
	ActiveOnly bool   `query:"active_only"`
}

// PumpMeterResponse salida de un contador.
type PumpMeterResponse struct {
	ID             string          `json:"id"`
	StationID      string          `json:"station_id"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	SerialNumber   string          `json:"serial_number,omitempty"`
	Type           string          `json:"type"`
	InitialReading decimal.Decimal `json:"initial_reading"`
	CurrentReading decimal.Decimal `json:"current_reading"`
	LastReadingAt  *time.Time      `json:"last_reading_at,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RecordReadingRequest body para POST /api/diesel/pump-readings.
type RecordReadingRequest struct {
	PumpMeterID  string          `json:"pump_meter_id" validate:"required"`
	ReadingValue decimal.Decimal `json:"reading_value"`
	ReadingType  string          `json:"reading_type" validate:"required,oneof=before after"`
	TaskID       string          `json:"task_id"`
	EvidenceKey  string          `json:"evidence_key"`
	ReadingAt    *time.Time      `json:"reading_at"`
	Notes        string          `json:"notes" validate:"max=1000"`
}

// ReadingFilterRequest query de GET /api/diesel/pump-readings.
type ReadingFilterRequest struct {
	PageRequest
	DateRangeRequest
	PumpMeterID   string `query:"pump_meter_id"`
	TaskID        string `query:"task_id"`
	AnomalousOnly bool   `query:"anomalous_only"`
}

// PumpReadingResponse salida de una lectura.
type PumpReadingResponse struct {
	ID           string          `json:"id"`
	PumpMeterID  string          `json:"pump_meter_id"`
	TaskID       string          `json:"task_id,omitempty"`
	ReadingValue decimal.Decimal `json:"reading_value"`
	ReadingType  string          `json:"reading_type"`
	EvidenceKey  string          `json:"evidence_key,omitempty"`
	Anomalous    bool            `json:"anomalous"`
	Baseline     decimal.Decimal `json:"baseline"`
	ReadingAt    time.Time       `json:"reading_at"`
	RecordedBy   string          `json:"recorded_by"`
	Notes        string          `json:"notes,omitempty"`
}

// MeterAuditEntry clasificación de una lectura del historial.
type MeterAuditEntry struct {
	Reading   PumpReadingResponse `json:"reading"`
	Baseline  *decimal.Decimal    `json:"baseline,omitempty"`
	Anomalous bool                `json:"anomalous"`
	Mismatch  bool                `json:"mismatch"`
}

// MeterAuditResponse salida de GET /api/diesel/pump-meters/:id/audit.
type MeterAuditResponse struct {
	Meter          PumpMeterResponse `json:"meter"`
	Entries        []MeterAuditEntry `json:"entries"`
	AnomalousCount int               `json:"anomalous_count"`
}
