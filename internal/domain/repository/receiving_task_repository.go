package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// ReceivingTaskFilter filtros del listado de tareas (por fecha de tarea).
type ReceivingTaskFilter struct {
	StationID     string
	EmployeeID    string
	SupplierID    string
	Status        entity.TaskStatus
	From, To      *time.Time
	Limit, Offset int
}

// ReceivingTaskRepository puerto de persistencia de tareas de recepción.
type ReceivingTaskRepository interface {
	// Create falla con domain.ErrConflict si el número de tarea ya existe en el negocio.
	Create(ctx context.Context, task *entity.ReceivingTask) error
	GetByID(ctx context.Context, id string) (*entity.ReceivingTask, error)
	// GetForUpdate serializa las transiciones de una misma tarea.
	GetForUpdate(ctx context.Context, id string) (*entity.ReceivingTask, error)
	// Save persiste estado, etapas y cantidades.
	Save(ctx context.Context, task *entity.ReceivingTask) error
	List(ctx context.Context, businessID string, f ReceivingTaskFilter) ([]*entity.ReceivingTask, error)
}
