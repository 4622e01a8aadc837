package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// TankMovementFilter filtros del historial de movimientos. TankID coincide con origen o destino.
type TankMovementFilter struct {
	StationID     string
	TankID        string
	TaskID        string
	Type          entity.MovementType
	From, To      *time.Time
	Limit, Offset int
}

// TankMovementRepository libro de movimientos: solo inserción y consulta.
type TankMovementRepository interface {
	Create(ctx context.Context, movement *entity.TankMovement) error
	GetByID(ctx context.Context, id string) (*entity.TankMovement, error)
	List(ctx context.Context, businessID string, f TankMovementFilter) ([]*entity.TankMovement, error)
}
