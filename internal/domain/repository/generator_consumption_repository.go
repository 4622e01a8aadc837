package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// ConsumptionFilter filtros de consumos de generador (por fecha de consumo).
type ConsumptionFilter struct {
	StationID     string
	GeneratorID   string
	TankID        string
	From, To      *time.Time
	Limit, Offset int
}

// GeneratorConsumptionRepository puerto de persistencia de consumos de generador.
type GeneratorConsumptionRepository interface {
	Create(ctx context.Context, c *entity.GeneratorConsumption) error
	List(ctx context.Context, businessID string, f ConsumptionFilter) ([]*entity.GeneratorConsumption, error)
}
