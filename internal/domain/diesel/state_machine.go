package diesel

import (
	"fmt"
	"time"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// CheckTransition decide si el payload puede aplicarse a la tarea.
// Devuelve noop=true cuando la etapa ya está registrada con un payload idéntico.
func CheckTransition(task *entity.ReceivingTask, payload entity.StagePayload) (noop bool, err error) {
	if payload == nil {
		return false, domain.InvalidFields("payload")
	}
	target := payload.Status()
	if rec, ok := task.Stage(target); ok {
		if entity.SamePayload(rec.Payload, payload) {
			return true, nil
		}
		return false, fmt.Errorf("%w: %s", domain.ErrAlreadyRecorded, target)
	}
	if task.Status.Terminal() {
		return false, &domain.TransitionError{From: string(task.Status), To: string(target)}
	}
	if err := checkStageTime(task, payload); err != nil {
		return false, err
	}
	if target == entity.TaskStatusCancelled {
		return false, nil
	}
	next, _ := task.Status.Next()
	if target != next {
		return false, &domain.TransitionError{From: string(task.Status), To: string(target), Expected: string(next)}
	}
	if err := payload.Validate(); err != nil {
		return false, err
	}
	return false, checkPairs(task.Checkpoints(), payload)
}

// checkStageTime la hora explícita de la etapa no puede ser anterior a la de la etapa previa.
func checkStageTime(task *entity.ReceivingTask, payload entity.StagePayload) error {
	at := payload.When()
	if at == nil || len(task.Stages) == 0 {
		return nil
	}
	prev := task.Stages[len(task.Stages)-1]
	if at.Before(*prev.At()) {
		return fmt.Errorf("%w: %s anterior a la etapa %s", domain.InvalidFields("at"), at.UTC().Format(time.RFC3339), prev.Status)
	}
	return nil
}

// checkPairs las lecturas antes/después de una misma bomba van juntas.
func checkPairs(c entity.Checkpoints, payload entity.StagePayload) error {
	switch p := payload.(type) {
	case entity.ReturningPayload:
		if (c.SupplierPumpBefore != nil) != (p.SupplierPumpAfter != nil) {
			return domain.InvalidFields("supplier_pump_after")
		}
	case entity.CompletedPayload:
		if (c.IntakePumpBefore != nil) != (p.IntakePumpAfter != nil) {
			return domain.InvalidFields("intake_pump_after")
		}
	}
	return nil
}
