package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// TankFilter filtros de listado de tanques.
type TankFilter struct {
	StationID  string
	Role       entity.TankRole
	ActiveOnly bool
}

// TankRepository puerto de persistencia de tanques.
// El nivel solo se modifica con UpdateLevel dentro de la tx que registra el movimiento.
type TankRepository interface {
	Create(ctx context.Context, tank *entity.Tank) error
	// Update actualiza metadatos; nunca toca current_level.
	Update(ctx context.Context, tank *entity.Tank) error
	GetByID(ctx context.Context, id string) (*entity.Tank, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Tank, error)
	List(ctx context.Context, businessID string, f TankFilter) ([]*entity.Tank, error)
	UpdateLevel(ctx context.Context, id string, level decimal.Decimal) error
}
