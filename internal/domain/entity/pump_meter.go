package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PumpType tipo de contador según el punto de lectura.
type PumpType string

const (
	PumpTypeSupplier PumpType = "supplier" // bomba del proveedor
	PumpTypeIntake   PumpType = "intake"   // bomba de entrada (recepción en estación)
	PumpTypeOutput   PumpType = "output"   // bomba de salida (distribución)
)

// Valid indica si el tipo es uno de los conocidos.
func (t PumpType) Valid() bool {
	switch t {
	case PumpTypeSupplier, PumpTypeIntake, PumpTypeOutput:
		return true
	}
	return false
}

// PumpMeter contador acumulativo de una bomba física.
// CurrentReading es caché de la última lectura aceptada (no anómala) del registro de lecturas.
type PumpMeter struct {
	ID             string
	BusinessID     string
	StationID      string
	SupplierID     string // solo para contadores en sitio del proveedor
	Code           string // único por estación
	Name           string
	SerialNumber   string
	Type           PumpType
	InitialReading decimal.Decimal // lectura al registrar (línea base de auditoría)
	CurrentReading decimal.Decimal
	LastReadingAt  *time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
