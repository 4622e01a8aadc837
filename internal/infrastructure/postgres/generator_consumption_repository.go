package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.GeneratorConsumptionRepository = (*GeneratorConsumptionRepo)(nil)

// GeneratorConsumptionRepo consumos diarios de generadores.
type GeneratorConsumptionRepo struct {
	q Querier
}

// NewGeneratorConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGeneratorConsumptionRepository(q Querier) *GeneratorConsumptionRepo {
	return &GeneratorConsumptionRepo{q: q}
}

const consumptionColumns = `id, business_id, station_id, generator_id, tank_id, consumption_date, start_level,
	end_level, quantity_consumed, running_hours, consumption_rate, movement_id, notes, recorded_by, created_at`

func (r *GeneratorConsumptionRepo) Create(ctx context.Context, c *entity.GeneratorConsumption) error {
	query := `INSERT INTO diesel_generator_consumptions (` + consumptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.StationID, c.GeneratorID, c.TankID, c.ConsumptionDate, c.StartLevel, c.EndLevel,
		c.QuantityConsumed, c.RunningHours, c.ConsumptionRate, nullable(c.MovementID), nullable(c.Notes),
		nullable(c.RecordedBy), c.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create generator consumption", err)
	}
	return nil
}

func (r *GeneratorConsumptionRepo) List(ctx context.Context, businessID string, f repository.ConsumptionFilter) ([]*entity.GeneratorConsumption, error) {
	fb := newFilter("business_id", businessID)
	if f.StationID != "" {
		fb.add("station_id = %s", f.StationID)
	}
	if f.GeneratorID != "" {
		fb.add("generator_id = %s", f.GeneratorID)
	}
	if f.TankID != "" {
		fb.add("tank_id = %s", f.TankID)
	}
	if f.From != nil {
		fb.add("consumption_date >= %s", *f.From)
	}
	if f.To != nil {
		fb.add("consumption_date <= %s", *f.To)
	}
	query := `SELECT ` + consumptionColumns + ` FROM diesel_generator_consumptions` + fb.sql() +
		` ORDER BY consumption_date DESC, created_at DESC` + fb.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("list generator consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.GeneratorConsumption
	for rows.Next() {
		var c entity.GeneratorConsumption
		var movement, notes, recordedBy *string
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.StationID, &c.GeneratorID, &c.TankID, &c.ConsumptionDate,
			&c.StartLevel, &c.EndLevel, &c.QuantityConsumed, &c.RunningHours, &c.ConsumptionRate, &movement,
			&notes, &recordedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generator consumption: %w", err)
		}
		c.MovementID = deref(movement)
		c.Notes = deref(notes)
		c.RecordedBy = deref(recordedBy)
		list = append(list, &c)
	}
	return list, rows.Err()
}
