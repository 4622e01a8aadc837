package ports

import (
	"context"
	"time"
)

// TaskNumberSequence genera el consecutivo diario de tareas de recepción por negocio.
// Debe ser atómico entre réplicas del API.
type TaskNumberSequence interface {
	Next(ctx context.Context, businessID string, day time.Time) (int64, error)
}
