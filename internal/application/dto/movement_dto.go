package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutputPumpRequest lecturas de la bomba de salida asociadas a un movimiento.
type OutputPumpRequest struct {
	PumpID string          `json:"pump_id" validate:"required"`
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
}

// AdjustmentRequest body para POST /api/diesel/movements/adjustments.
type AdjustmentRequest struct {
	TankID     string          `json:"tank_id" validate:"required"`
	Direction  string          `json:"direction" validate:"required,oneof=in out"`
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes" validate:"required,max=2000"`
	MovementAt *time.Time      `json:"movement_at"`
}

// TransferRequest body para POST /api/diesel/movements/transfers.
type TransferRequest struct {
	FromTankID string             `json:"from_tank_id" validate:"required"`
	ToTankID   string             `json:"to_tank_id" validate:"required,nefield=FromTankID"`
	Quantity   decimal.Decimal    `json:"quantity"`
	OutputPump *OutputPumpRequest `json:"output_pump" validate:"omitempty"`
	Notes      string             `json:"notes" validate:"max=2000"`
	MovementAt *time.Time         `json:"movement_at"`
}

// MovementFilterRequest query de GET /api/diesel/movements.
type MovementFilterRequest struct {
	PageRequest
	DateRangeRequest
	StationID string `query:"station_id"`
	TankID    string `query:"tank_id"`
	TaskID    string `query:"task_id"`
	Type      string `query:"type" validate:"omitempty,oneof=receiving transfer consumption adjustment"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID                      string           `json:"id"`
	StationID               string           `json:"station_id"`
	MovementType            string           `json:"movement_type"`
	FromTankID              string           `json:"from_tank_id,omitempty"`
	ToTankID                string           `json:"to_tank_id,omitempty"`
	Quantity                decimal.Decimal  `json:"quantity"`
	TaskID                  string           `json:"task_id,omitempty"`
	GeneratorID             string           `json:"generator_id,omitempty"`
	OutputPumpID            string           `json:"output_pump_id,omitempty"`
	OutputPumpReadingBefore *decimal.Decimal `json:"output_pump_reading_before,omitempty"`
	OutputPumpReadingAfter  *decimal.Decimal `json:"output_pump_reading_after,omitempty"`
	Notes                   string           `json:"notes,omitempty"`
	RecordedBy              string           `json:"recorded_by"`
	MovementAt              time.Time        `json:"movement_at"`
}

// RecordConsumptionRequest body para POST /api/diesel/consumptions.
type RecordConsumptionRequest struct {
	GeneratorID     string             `json:"generator_id" validate:"required"`
	TankID          string             `json:"tank_id" validate:"required"`
	ConsumptionDate string             `json:"consumption_date" validate:"omitempty,datetime=2006-01-02"`
	StartLevel      decimal.Decimal    `json:"start_level"`
	EndLevel        decimal.Decimal    `json:"end_level"`
	RunningHours    *decimal.Decimal   `json:"running_hours"`
	OutputPump      *OutputPumpRequest `json:"output_pump" validate:"omitempty"`
	Notes           string             `json:"notes" validate:"max=2000"`
}

// ConsumptionFilterRequest query de GET /api/diesel/consumptions y /statistics.
type ConsumptionFilterRequest struct {
	PageRequest
	DateRangeRequest
	StationID   string `query:"station_id"`
	GeneratorID string `query:"generator_id"`
	TankID      string `query:"tank_id"`
}

// ConsumptionResponse salida de un consumo de generador.
type ConsumptionResponse struct {
	ID               string           `json:"id"`
	StationID        string           `json:"station_id"`
	GeneratorID      string           `json:"generator_id"`
	TankID           string           `json:"tank_id"`
	ConsumptionDate  time.Time        `json:"consumption_date"`
	StartLevel       decimal.Decimal  `json:"start_level"`
	EndLevel         decimal.Decimal  `json:"end_level"`
	QuantityConsumed decimal.Decimal  `json:"quantity_consumed"`
	RunningHours     *decimal.Decimal `json:"running_hours,omitempty"`
	ConsumptionRate  *decimal.Decimal `json:"consumption_rate"`
	MovementID       string           `json:"movement_id,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	RecordedBy       string           `json:"recorded_by"`
}

// ConsumptionStatisticsResponse agregado por generador.
type ConsumptionStatisticsResponse struct {
	GeneratorID       string           `json:"generator_id"`
	Records           int              `json:"records"`
	TotalConsumed     decimal.Decimal  `json:"total_consumed"`
	TotalRunningHours decimal.Decimal  `json:"total_running_hours"`
	AverageRate       *decimal.Decimal `json:"average_rate"`
}

// EvidenceUploadRequest body JSON para POST /api/diesel/evidence (alternativa a multipart).
// Data es base64, con o sin prefijo data URI.
type EvidenceUploadRequest struct {
	FileName string `json:"file_name" validate:"required,max=200"`
	Folder   string `json:"folder" validate:"omitempty,max=100"`
	Data     string `json:"data" validate:"required"`
}

// EvidenceResponse salida de una evidencia subida.
type EvidenceResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
