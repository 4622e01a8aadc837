package diesel_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// taskAt construye una tarea con las etapas indicadas ya registradas.
func taskAt(payloads ...entity.StagePayload) *entity.ReceivingTask {
	task := &entity.ReceivingTask{ID: "task-1", Status: entity.TaskStatusPending}
	for i, p := range payloads {
		task.Stages = append(task.Stages, entity.StageRecord{
			Status:     p.Status(),
			Payload:    p,
			RecordedAt: t0.Add(time.Duration(i) * time.Minute),
		})
		task.Status = p.Status()
	}
	return task
}
