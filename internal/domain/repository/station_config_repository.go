package repository

import (
	"context"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// StationConfigRepository configuración de diesel por estación (una fila por estación).
type StationConfigRepository interface {
	Get(ctx context.Context, stationID string) (*entity.StationConfig, error)
	Upsert(ctx context.Context, cfg *entity.StationConfig) error
}
