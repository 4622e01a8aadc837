package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.PumpMeterRepository = (*PumpMeterRepo)(nil)

// PumpMeterRepo implementación sobre PostgreSQL (usable con pool o tx).
type PumpMeterRepo struct {
	q Querier
}

// NewPumpMeterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPumpMeterRepository(q Querier) *PumpMeterRepo {
	return &PumpMeterRepo{q: q}
}

const pumpMeterColumns = `id, business_id, station_id, supplier_id, code, name, serial_number, type,
	initial_reading, current_reading, last_reading_at, is_active, created_at, updated_at`

func (r *PumpMeterRepo) Create(ctx context.Context, m *entity.PumpMeter) error {
	query := `INSERT INTO diesel_pump_meters (` + pumpMeterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BusinessID, m.StationID, nullable(m.SupplierID), m.Code, m.Name, nullable(m.SerialNumber), m.Type,
		m.InitialReading, m.CurrentReading, m.LastReadingAt, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create pump meter", err)
	}
	return nil
}

// Update actualiza metadatos; current_reading y last_reading_at solo cambian con UpdateReading.
func (r *PumpMeterRepo) Update(ctx context.Context, m *entity.PumpMeter) error {
	query := `UPDATE diesel_pump_meters
		SET name = $2, serial_number = $3, supplier_id = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Name, nullable(m.SerialNumber), nullable(m.SupplierID), m.IsActive, m.UpdatedAt)
	if err != nil {
		return wrapWrite("update pump meter", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PumpMeterRepo) GetByID(ctx context.Context, id string) (*entity.PumpMeter, error) {
	return r.get(ctx, `SELECT `+pumpMeterColumns+` FROM diesel_pump_meters WHERE id = $1`, id)
}

func (r *PumpMeterRepo) GetForUpdate(ctx context.Context, id string) (*entity.PumpMeter, error) {
	return r.get(ctx, `SELECT `+pumpMeterColumns+` FROM diesel_pump_meters WHERE id = $1 FOR UPDATE`, id)
}

func (r *PumpMeterRepo) get(ctx context.Context, query, id string) (*entity.PumpMeter, error) {
	m, err := scanPumpMeter(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pump meter: %w", err)
	}
	return m, nil
}

func (r *PumpMeterRepo) List(ctx context.Context, businessID string, f repository.PumpMeterFilter) ([]*entity.PumpMeter, error) {
	fb := newFilter("business_id", businessID)
	if f.StationID != "" {
		fb.add("station_id = %s", f.StationID)
	}
	if f.Type != "" {
		fb.add("type = %s", string(f.Type))
	}
	if f.ActiveOnly {
		fb.where = append(fb.where, "is_active")
	}
	query := `SELECT ` + pumpMeterColumns + ` FROM diesel_pump_meters` + fb.sql() + ` ORDER BY station_id, code`
	rows, err := r.q.Query(ctx, query, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("list pump meters: %w", err)
	}
	defer rows.Close()
	var list []*entity.PumpMeter
	for rows.Next() {
		m, err := scanPumpMeter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pump meter: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *PumpMeterRepo) UpdateReading(ctx context.Context, id string, value decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE diesel_pump_meters SET current_reading = $2, last_reading_at = $3, updated_at = NOW() WHERE id = $1`,
		id, value, at)
	if err != nil {
		return fmt.Errorf("update meter reading: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPumpMeter(row pgx.Row) (*entity.PumpMeter, error) {
	var m entity.PumpMeter
	var supplierID, serial *string
	err := row.Scan(&m.ID, &m.BusinessID, &m.StationID, &supplierID, &m.Code, &m.Name, &serial, &m.Type,
		&m.InitialReading, &m.CurrentReading, &m.LastReadingAt, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.SupplierID = deref(supplierID)
	m.SerialNumber = deref(serial)
	return &m, nil
}
