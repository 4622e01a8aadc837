package diesel

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// Credit nivel resultante de acreditar quantity; nunca recorta: si excede la capacidad falla.
func Credit(tank *entity.Tank, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return tank.CurrentLevel, domain.InvalidFields("quantity")
	}
	level := tank.CurrentLevel.Add(quantity)
	if level.GreaterThan(tank.Capacity) {
		return tank.CurrentLevel, &domain.LevelError{
			Err: domain.ErrOverCapacity, TankID: tank.ID,
			Level: tank.CurrentLevel, Capacity: tank.Capacity, Quantity: quantity,
		}
	}
	return level, nil
}

// Debit nivel resultante de debitar quantity; falla si quedaría negativo.
func Debit(tank *entity.Tank, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return tank.CurrentLevel, domain.InvalidFields("quantity")
	}
	level := tank.CurrentLevel.Sub(quantity)
	if level.IsNegative() {
		return tank.CurrentLevel, &domain.LevelError{
			Err: domain.ErrInsufficientVolume, TankID: tank.ID,
			Level: tank.CurrentLevel, Capacity: tank.Capacity, Quantity: quantity,
		}
	}
	return level, nil
}
