package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneratorConsumption registro diario de consumo de un generador.
// ConsumptionRate es nil cuando no hay horas de funcionamiento.
type GeneratorConsumption struct {
	ID               string
	BusinessID       string
	StationID        string
	GeneratorID      string
	TankID           string
	ConsumptionDate  time.Time
	StartLevel       decimal.Decimal
	EndLevel         decimal.Decimal
	QuantityConsumed decimal.Decimal
	RunningHours     *decimal.Decimal
	ConsumptionRate  *decimal.Decimal
	MovementID       string // movimiento de consumo asociado ("" si el consumo fue 0)
	Notes            string
	RecordedBy       string
	CreatedAt        time.Time
}

// ConsumptionStatistics agregado por generador en un rango de fechas.
type ConsumptionStatistics struct {
	GeneratorID       string
	Records           int
	TotalConsumed     decimal.Decimal
	TotalRunningHours decimal.Decimal
	AverageRate       *decimal.Decimal
}
