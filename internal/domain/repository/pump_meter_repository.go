package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// PumpMeterFilter filtros de listado de contadores.
type PumpMeterFilter struct {
	StationID  string
	Type       entity.PumpType
	ActiveOnly bool
}

// PumpMeterRepository puerto de persistencia de contadores de bomba.
// GetByID devuelve (nil, nil) si no existe.
type PumpMeterRepository interface {
	Create(ctx context.Context, meter *entity.PumpMeter) error
	Update(ctx context.Context, meter *entity.PumpMeter) error
	GetByID(ctx context.Context, id string) (*entity.PumpMeter, error)
	// GetForUpdate bloquea la fila del contador (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.PumpMeter, error)
	List(ctx context.Context, businessID string, f PumpMeterFilter) ([]*entity.PumpMeter, error)
	// UpdateReading actualiza la caché de la última lectura aceptada.
	UpdateReading(ctx context.Context, id string, value decimal.Decimal, at time.Time) error
}
