package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TankRole función del tanque dentro de la estación.
type TankRole string

const (
	TankRoleReceiving TankRole = "receiving" // tanque de recepción
	TankRoleMain      TankRole = "main"      // tanque principal
	TankRoleGenerator TankRole = "generator" // tanque de generador
)

// Valid indica si el rol es uno de los conocidos.
func (r TankRole) Valid() bool {
	switch r {
	case TankRoleReceiving, TankRoleMain, TankRoleGenerator:
		return true
	}
	return false
}

// Tank tanque físico de una estación. Todas las cantidades en litros.
// CurrentLevel solo cambia al registrar movimientos (nunca se edita directamente).
type Tank struct {
	ID                string
	BusinessID        string
	StationID         string
	Code              string // único por estación
	Name              string
	Role              TankRole
	Material          string
	Capacity          decimal.Decimal
	MinLevel          decimal.Decimal
	DeadStock         decimal.Decimal
	CurrentLevel      decimal.Decimal
	LinkedGeneratorID string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BelowMinLevel es una advertencia, no un error.
func (t *Tank) BelowMinLevel() bool {
	return t.CurrentLevel.LessThan(t.MinLevel)
}

// FillPercent porcentaje de llenado con dos decimales (0 si la capacidad es 0).
func (t *Tank) FillPercent() decimal.Decimal {
	if !t.Capacity.IsPositive() {
		return decimal.Zero
	}
	return t.CurrentLevel.Div(t.Capacity).Mul(decimal.NewFromInt(100)).Round(2)
}
