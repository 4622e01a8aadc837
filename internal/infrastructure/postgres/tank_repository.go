package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.TankRepository = (*TankRepo)(nil)

// TankRepo implementación sobre PostgreSQL (usable con pool o tx).
type TankRepo struct {
	q Querier
}

// NewTankRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTankRepository(q Querier) *TankRepo {
	return &TankRepo{q: q}
}

const tankColumns = `id, business_id, station_id, code, name, role, material, capacity, min_level, dead_stock,
	current_level, linked_generator_id, is_active, created_at, updated_at`

func (r *TankRepo) Create(ctx context.Context, t *entity.Tank) error {
	query := `INSERT INTO diesel_tanks (` + tankColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BusinessID, t.StationID, t.Code, t.Name, t.Role, nullable(t.Material), t.Capacity, t.MinLevel,
		t.DeadStock, t.CurrentLevel, nullable(t.LinkedGeneratorID), t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create tank", err)
	}
	return nil
}

// Update no toca current_level.
func (r *TankRepo) Update(ctx context.Context, t *entity.Tank) error {
	query := `UPDATE diesel_tanks
		SET name = $2, material = $3, capacity = $4, min_level = $5, dead_stock = $6,
		    linked_generator_id = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Name, nullable(t.Material), t.Capacity, t.MinLevel, t.DeadStock,
		nullable(t.LinkedGeneratorID), t.IsActive, t.UpdatedAt)
	if err != nil {
		return wrapWrite("update tank", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TankRepo) GetByID(ctx context.Context, id string) (*entity.Tank, error) {
	return r.get(ctx, `SELECT `+tankColumns+` FROM diesel_tanks WHERE id = $1`, id)
}

func (r *TankRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tank, error) {
	return r.get(ctx, `SELECT `+tankColumns+` FROM diesel_tanks WHERE id = $1 FOR UPDATE`, id)
}

func (r *TankRepo) get(ctx context.Context, query, id string) (*entity.Tank, error) {
	t, err := scanTank(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}
	return t, nil
}

func (r *TankRepo) List(ctx context.Context, businessID string, f repository.TankFilter) ([]*entity.Tank, error) {
	fb := newFilter("business_id", businessID)
	if f.StationID != "" {
		fb.add("station_id = %s", f.StationID)
	}
	if f.Role != "" {
		fb.add("role = %s", string(f.Role))
	}
	if f.ActiveOnly {
		fb.where = append(fb.where, "is_active")
	}
	rows, err := r.q.Query(ctx, `SELECT `+tankColumns+` FROM diesel_tanks`+fb.sql()+` ORDER BY station_id, code`, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tank
	for rows.Next() {
		t, err := scanTank(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tank: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TankRepo) UpdateLevel(ctx context.Context, id string, level decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE diesel_tanks SET current_level = $2, updated_at = NOW() WHERE id = $1`, id, level)
	if err != nil {
		return fmt.Errorf("update tank level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTank(row pgx.Row) (*entity.Tank, error) {
	var t entity.Tank
	var material, generator *string
	err := row.Scan(&t.ID, &t.BusinessID, &t.StationID, &t.Code, &t.Name, &t.Role, &material, &t.Capacity,
		&t.MinLevel, &t.DeadStock, &t.CurrentLevel, &generator, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Material = deref(material)
	t.LinkedGeneratorID = deref(generator)
	return &t, nil
}
