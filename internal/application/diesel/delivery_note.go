package diesel

import (
	"context"
	"fmt"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// DeliveryNote datos que se imprimen en la nota de entrega.
type DeliveryNote struct {
	Task            *entity.ReceivingTask
	Checkpoints     entity.Checkpoints
	DestinationTank *entity.Tank
}

// DeliveryNoteUseCase genera la nota de entrega (PDF) de una tarea completada.
type DeliveryNoteUseCase struct {
	tasks     repository.ReceivingTaskRepository
	tanks     repository.TankRepository
	generator DeliveryNoteGenerator
}

// NewDeliveryNoteUseCase construye el caso de uso.
func NewDeliveryNoteUseCase(tasks repository.ReceivingTaskRepository, tanks repository.TankRepository, generator DeliveryNoteGenerator) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{tasks: tasks, tanks: tanks, generator: generator}
}

// Download devuelve (pdfBytes, filename). Solo tareas completadas.
func (uc *DeliveryNoteUseCase) Download(ctx context.Context, businessID, taskID string) ([]byte, string, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, "", fmt.Errorf("nota de entrega: obtener tarea: %w", err)
	}
	if task == nil || task.BusinessID != businessID {
		return nil, "", domain.ErrNotFound
	}
	if task.Status != entity.TaskStatusCompleted {
		return nil, "", fmt.Errorf("%w: la tarea %s no está completada", domain.ErrInvalidInput, task.TaskNumber)
	}
	c := task.Checkpoints()
	tank, err := uc.tanks.GetByID(ctx, c.DestinationTankID)
	if err != nil {
		return nil, "", fmt.Errorf("nota de entrega: obtener tanque: %w", err)
	}
	pdf, err := uc.generator.GenerateDeliveryNote(ctx, DeliveryNote{Task: task, Checkpoints: c, DestinationTank: tank})
	if err != nil {
		return nil, "", fmt.Errorf("nota de entrega: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("nota-entrega-%s.pdf", task.TaskNumber), nil
}
