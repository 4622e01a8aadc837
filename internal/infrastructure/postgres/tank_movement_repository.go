package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.TankMovementRepository = (*TankMovementRepo)(nil)

// TankMovementRepo libro de movimientos (solo INSERT y SELECT).
type TankMovementRepo struct {
	q Querier
}

// NewTankMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTankMovementRepository(q Querier) *TankMovementRepo {
	return &TankMovementRepo{q: q}
}

const tankMovementColumns = `id, business_id, station_id, type, from_tank_id, to_tank_id, quantity, task_id,
	generator_id, output_pump_id, output_pump_reading_before, output_pump_reading_after, notes, recorded_by,
	movement_at, created_at`

func (r *TankMovementRepo) Create(ctx context.Context, m *entity.TankMovement) error {
	query := `INSERT INTO diesel_tank_movements (` + tankMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BusinessID, m.StationID, m.Type, nullable(m.FromTankID), nullable(m.ToTankID), m.Quantity,
		nullable(m.TaskID), nullable(m.GeneratorID), nullable(m.OutputPumpID), m.OutputPumpReadingBefore,
		m.OutputPumpReadingAfter, nullable(m.Notes), nullable(m.RecordedBy), m.MovementAt, m.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create tank movement", err)
	}
	return nil
}

func (r *TankMovementRepo) GetByID(ctx context.Context, id string) (*entity.TankMovement, error) {
	m, err := scanTankMovement(r.q.QueryRow(ctx, `SELECT `+tankMovementColumns+` FROM diesel_tank_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tank movement: %w", err)
	}
	return m, nil
}

func (r *TankMovementRepo) List(ctx context.Context, businessID string, f repository.TankMovementFilter) ([]*entity.TankMovement, error) {
	fb := newFilter("business_id", businessID)
	if f.StationID != "" {
		fb.add("station_id = %s", f.StationID)
	}
	if f.TankID != "" {
		fb.add("(from_tank_id = %[1]s OR to_tank_id = %[1]s)", f.TankID)
	}
	if f.TaskID != "" {
		fb.add("task_id = %s", f.TaskID)
	}
	if f.Type != "" {
		fb.add("type = %s", string(f.Type))
	}
	if f.From != nil {
		fb.add("movement_at >= %s", *f.From)
	}
	if f.To != nil {
		fb.add("movement_at <= %s", *f.To)
	}
	query := `SELECT ` + tankMovementColumns + ` FROM diesel_tank_movements` + fb.sql() +
		` ORDER BY movement_at DESC, created_at DESC` + fb.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("list tank movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.TankMovement
	for rows.Next() {
		m, err := scanTankMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tank movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanTankMovement(row pgx.Row) (*entity.TankMovement, error) {
	var m entity.TankMovement
	var from, to, task, generator, pump, notes, recordedBy *string
	err := row.Scan(&m.ID, &m.BusinessID, &m.StationID, &m.Type, &from, &to, &m.Quantity, &task, &generator,
		&pump, &m.OutputPumpReadingBefore, &m.OutputPumpReadingAfter, &notes, &recordedBy, &m.MovementAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.FromTankID = deref(from)
	m.ToTankID = deref(to)
	m.TaskID = deref(task)
	m.GeneratorID = deref(generator)
	m.OutputPumpID = deref(pump)
	m.Notes = deref(notes)
	m.RecordedBy = deref(recordedBy)
	return &m, nil
}
