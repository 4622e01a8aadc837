package postgres

import (
	"context"
	"fmt"
	"time"
)

// TaskNumberSequence secuencia diaria de números de tarea en la tabla diesel_task_number_sequences.
// Se usa cuando no hay Redis configurado.
type TaskNumberSequence struct {
	q Querier
}

// NewTaskNumberSequence construye la secuencia. Pasar pool.
func NewTaskNumberSequence(q Querier) *TaskNumberSequence {
	return &TaskNumberSequence{q: q}
}

// Next implementa ports.TaskNumberSequence con un upsert atómico.
func (s *TaskNumberSequence) Next(ctx context.Context, businessID string, day time.Time) (int64, error) {
	query := `
		INSERT INTO diesel_task_number_sequences (business_id, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (business_id, day) DO UPDATE SET last_value = diesel_task_number_sequences.last_value + 1
		RETURNING last_value`
	var seq int64
	if err := s.q.QueryRow(ctx, query, businessID, day.UTC().Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next task number: %w", err)
	}
	return seq, nil
}
