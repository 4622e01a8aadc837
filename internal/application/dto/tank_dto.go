package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTankRequest body para POST /api/diesel/tanks.
// InitialLevel > 0 se registra como ajuste de apertura.
type CreateTankRequest struct {
	StationID         string          `json:"station_id" validate:"required"`
	Code              string          `json:"code" validate:"required,max=50"`
	Name              string          `json:"name" validate:"required,max=200"`
	Role              string          `json:"role" validate:"required,oneof=receiving main generator"`
	Material          string          `json:"material" validate:"max=100"`
	Capacity          decimal.Decimal `json:"capacity"`
	MinLevel          decimal.Decimal `json:"min_level"`
	DeadStock         decimal.Decimal `json:"dead_stock"`
	InitialLevel      decimal.Decimal `json:"initial_level"`
	LinkedGeneratorID string          `json:"linked_generator_id"`
}

// UpdateTankRequest metadatos editables; el nivel solo cambia con movimientos.
type UpdateTankRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Material          *string          `json:"material" validate:"omitempty,max=100"`
	Capacity          *decimal.Decimal `json:"capacity"`
	MinLevel          *decimal.Decimal `json:"min_level"`
	DeadStock         *decimal.Decimal `json:"dead_stock"`
	LinkedGeneratorID *string          `json:"linked_generator_id"`
	IsActive          *bool            `json:"is_active"`
}

// TankFilterRequest query de GET /api/diesel/tanks.
type TankFilterRequest struct {
	StationID  string `query:"station_id"`
	Role       string `query:"role" validate:"omitempty,oneof=receiving main generator"`
	ActiveOnly bool   `query:"active_only"`
}

// TankResponse salida de un tanque.
type TankResponse struct {
	ID                string          `json:"id"`
	StationID         string          `json:"station_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	Material          string          `json:"material,omitempty"`
	Capacity          decimal.Decimal `json:"capacity"`
	MinLevel          decimal.Decimal `json:"min_level"`
	DeadStock         decimal.Decimal `json:"dead_stock"`
	CurrentLevel      decimal.Decimal `json:"current_level"`
	FillPercent       decimal.Decimal `json:"fill_percent"`
	BelowMinLevel     bool            `json:"below_min_level"`
	LinkedGeneratorID string          `json:"linked_generator_id,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StationConfigRequest body para PUT /api/diesel/stations/:stationId/config.
type StationConfigRequest struct {
	ReceivingTanks     []string `json:"receiving_tanks" validate:"dive,required"`
	MainTanks          []string `json:"main_tanks" validate:"dive,required"`
	GeneratorTanks     []string `json:"generator_tanks" validate:"dive,required"`
	IntakePumps        []string `json:"intake_pumps" validate:"dive,required"`
	OutputPumps        []string `json:"output_pumps" validate:"dive,required"`
	HasIntakePump      bool     `json:"has_intake_pump"`
	HasOutputPump      bool     `json:"has_output_pump"`
	IntakePumpHasMeter bool     `json:"intake_pump_has_meter"`
	OutputPumpHasMeter bool     `json:"output_pump_has_meter"`
}

// StationConfigResponse salida de la configuración de una estación.
type StationConfigResponse struct {
	StationID          string    `json:"station_id"`
	ReceivingTanks     []string  `json:"receiving_tanks"`
	MainTanks          []string  `json:"main_tanks"`
	GeneratorTanks     []string  `json:"generator_tanks"`
	IntakePumps        []string  `json:"intake_pumps"`
	OutputPumps        []string  `json:"output_pumps"`
	HasIntakePump      bool      `json:"has_intake_pump"`
	HasOutputPump      bool      `json:"has_output_pump"`
	IntakePumpHasMeter bool      `json:"intake_pump_has_meter"`
	OutputPumpHasMeter bool      `json:"output_pump_has_meter"`
	UpdatedBy          string    `json:"updated_by,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}
