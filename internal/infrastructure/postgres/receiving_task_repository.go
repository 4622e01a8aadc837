package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.ReceivingTaskRepository = (*ReceivingTaskRepo)(nil)

// ReceivingTaskRepo tareas de recepción; las etapas se guardan como JSONB.
type ReceivingTaskRepo struct {
	q Querier
}

// NewReceivingTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivingTaskRepository(q Querier) *ReceivingTaskRepo {
	return &ReceivingTaskRepo{q: q}
}

const receivingTaskColumns = `id, business_id, station_id, task_number, task_date, employee_id, tanker_id,
	supplier_id, status, stages, quantity_from_supplier, quantity_received_at_station, quantity_difference,
	difference_notes, discrepancy, cancel_reason, notes, created_by, created_at, updated_at`

func (r *ReceivingTaskRepo) Create(ctx context.Context, t *entity.ReceivingTask) error {
	stages, err := marshalStages(t.Stages)
	if err != nil {
		return err
	}
	query := `INSERT INTO diesel_receiving_tasks (` + receivingTaskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(ctx, query,
		t.ID, t.BusinessID, t.StationID, t.TaskNumber, t.TaskDate, nullable(t.EmployeeID), t.TankerID,
		t.SupplierID, t.Status, stages, t.QuantityFromSupplier, t.QuantityReceivedAtStation, t.QuantityDifference,
		nullable(t.DifferenceNotes), t.Discrepancy, nullable(t.CancelReason), nullable(t.Notes),
		nullable(t.CreatedBy), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create receiving task", err)
	}
	return nil
}

func (r *ReceivingTaskRepo) GetByID(ctx context.Context, id string) (*entity.ReceivingTask, error) {
	return r.get(ctx, `SELECT `+receivingTaskColumns+` FROM diesel_receiving_tasks WHERE id = $1`, id)
}

func (r *ReceivingTaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReceivingTask, error) {
	return r.get(ctx, `SELECT `+receivingTaskColumns+` FROM diesel_receiving_tasks WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceivingTaskRepo) get(ctx context.Context, query, id string) (*entity.ReceivingTask, error) {
	t, err := scanReceivingTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiving task: %w", err)
	}
	return t, nil
}

func (r *ReceivingTaskRepo) Save(ctx context.Context, t *entity.ReceivingTask) error {
	stages, err := marshalStages(t.Stages)
	if err != nil {
		return err
	}
	query := `UPDATE diesel_receiving_tasks
		SET status = $2, stages = $3, quantity_from_supplier = $4, quantity_received_at_station = $5,
		    quantity_difference = $6, difference_notes = $7, discrepancy = $8, cancel_reason = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Status, stages, t.QuantityFromSupplier, t.QuantityReceivedAtStation,
		t.QuantityDifference, nullable(t.DifferenceNotes), t.Discrepancy, nullable(t.CancelReason), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save receiving task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceivingTaskRepo) List(ctx context.Context, businessID string, f repository.ReceivingTaskFilter) ([]*entity.ReceivingTask, error) {
	fb := newFilter("business_id", businessID)
	if f.StationID != "" {
		fb.add("station_id = %s", f.StationID)
	}
	if f.EmployeeID != "" {
		fb.add("employee_id = %s", f.EmployeeID)
	}
	if f.SupplierID != "" {
		fb.add("supplier_id = %s", f.SupplierID)
	}
	if f.Status != "" {
		fb.add("status = %s", string(f.Status))
	}
	if f.From != nil {
		fb.add("task_date >= %s", *f.From)
	}
	if f.To != nil {
		fb.add("task_date <= %s", *f.To)
	}
	query := `SELECT ` + receivingTaskColumns + ` FROM diesel_receiving_tasks` + fb.sql() +
		` ORDER BY task_date DESC, task_number DESC` + fb.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("list receiving tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceivingTask
	for rows.Next() {
		t, err := scanReceivingTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receiving task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func marshalStages(stages []entity.StageRecord) ([]byte, error) {
	if stages == nil {
		stages = []entity.StageRecord{}
	}
	b, err := json.Marshal(stages)
	if err != nil {
		return nil, fmt.Errorf("marshal stages: %w", err)
	}
	return b, nil
}

func scanReceivingTask(row pgx.Row) (*entity.ReceivingTask, error) {
	var t entity.ReceivingTask
	var stages []byte
	var employee, diffNotes, cancelReason, notes, createdBy *string
	err := row.Scan(&t.ID, &t.BusinessID, &t.StationID, &t.TaskNumber, &t.TaskDate, &employee, &t.TankerID,
		&t.SupplierID, &t.Status, &stages, &t.QuantityFromSupplier, &t.QuantityReceivedAtStation,
		&t.QuantityDifference, &diffNotes, &t.Discrepancy, &cancelReason, &notes, &createdBy,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stages, &t.Stages); err != nil {
		return nil, fmt.Errorf("unmarshal stages: %w", err)
	}
	t.EmployeeID = deref(employee)
	t.DifferenceNotes = deref(diffNotes)
	t.CancelReason = deref(cancelReason)
	t.Notes = deref(notes)
	t.CreatedBy = deref(createdBy)
	return &t, nil
}
