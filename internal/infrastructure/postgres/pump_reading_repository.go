package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.PumpReadingRepository = (*PumpReadingRepo)(nil)

// PumpReadingRepo registro de lecturas (solo INSERT y SELECT).
type PumpReadingRepo struct {
	q Querier
}

// NewPumpReadingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPumpReadingRepository(q Querier) *PumpReadingRepo {
	return &PumpReadingRepo{q: q}
}

const pumpReadingColumns = `id, business_id, pump_meter_id, task_id, reading_value, reading_type, evidence_key,
	anomalous, baseline, reading_at, recorded_by, notes, created_at`

func (r *PumpReadingRepo) Create(ctx context.Context, rd *entity.PumpReading) error {
	query := `INSERT INTO diesel_pump_readings (` + pumpReadingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		rd.ID, rd.BusinessID, rd.PumpMeterID, nullable(rd.TaskID), rd.ReadingValue, rd.ReadingType,
		nullable(rd.EvidenceKey), rd.Anomalous, rd.Baseline, rd.ReadingAt, nullable(rd.RecordedBy),
		nullable(rd.Notes), rd.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create pump reading", err)
	}
	return nil
}

func (r *PumpReadingRepo) List(ctx context.Context, businessID string, f repository.PumpReadingFilter) ([]*entity.PumpReading, error) {
	fb := newFilter("business_id", businessID)
	if f.PumpMeterID != "" {
		fb.add("pump_meter_id = %s", f.PumpMeterID)
	}
	if f.TaskID != "" {
		fb.add("task_id = %s", f.TaskID)
	}
	if f.AnomalousOnly {
		fb.where = append(fb.where, "anomalous")
	}
	if f.From != nil {
		fb.add("reading_at >= %s", *f.From)
	}
	if f.To != nil {
		fb.add("reading_at <= %s", *f.To)
	}
	query := `SELECT ` + pumpReadingColumns + ` FROM diesel_pump_readings` + fb.sql() +
		` ORDER BY reading_at DESC, created_at DESC`
	query += fb.page(f.Limit, f.Offset)
	return r.list(ctx, query, fb.args...)
}

func (r *PumpReadingRepo) ListByMeter(ctx context.Context, meterID string) ([]*entity.PumpReading, error) {
	query := `SELECT ` + pumpReadingColumns + ` FROM diesel_pump_readings
		WHERE pump_meter_id = $1 ORDER BY reading_at, created_at`
	return r.list(ctx, query, meterID)
}

func (r *PumpReadingRepo) AcceptedAround(ctx context.Context, meterID string, at time.Time) (prev, next *entity.PumpReading, err error) {
	prev, err = r.one(ctx, `SELECT `+pumpReadingColumns+` FROM diesel_pump_readings
		WHERE pump_meter_id = $1 AND NOT anomalous AND reading_at <= $2
		ORDER BY reading_at DESC, created_at DESC LIMIT 1`, meterID, at)
	if err != nil {
		return nil, nil, err
	}
	next, err = r.one(ctx, `SELECT `+pumpReadingColumns+` FROM diesel_pump_readings
		WHERE pump_meter_id = $1 AND NOT anomalous AND reading_at > $2
		ORDER BY reading_at, created_at LIMIT 1`, meterID, at)
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (r *PumpReadingRepo) one(ctx context.Context, query string, args ...any) (*entity.PumpReading, error) {
	rd, err := scanPumpReading(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pump reading: %w", err)
	}
	return rd, nil
}

func (r *PumpReadingRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PumpReading, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pump readings: %w", err)
	}
	defer rows.Close()
	var list []*entity.PumpReading
	for rows.Next() {
		rd, err := scanPumpReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pump reading: %w", err)
		}
		list = append(list, rd)
	}
	return list, rows.Err()
}

func scanPumpReading(row pgx.Row) (*entity.PumpReading, error) {
	var rd entity.PumpReading
	var taskID, evidence, recordedBy, notes *string
	err := row.Scan(&rd.ID, &rd.BusinessID, &rd.PumpMeterID, &taskID, &rd.ReadingValue, &rd.ReadingType,
		&evidence, &rd.Anomalous, &rd.Baseline, &rd.ReadingAt, &recordedBy, &notes, &rd.CreatedAt)
	if err != nil {
		return nil, err
	}
	rd.TaskID = deref(taskID)
	rd.EvidenceKey = deref(evidence)
	rd.RecordedBy = deref(recordedBy)
	rd.Notes = deref(notes)
	return &rd, nil
}
