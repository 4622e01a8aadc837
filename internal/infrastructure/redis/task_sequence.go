package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// keyTTL el contador del día se conserva dos días para absorber diferencias de zona horaria.
const keyTTL = 48 * time.Hour

// TaskNumberSequence implementa ports.TaskNumberSequence con INCR por negocio y día.
type TaskNumberSequence struct {
	client goredis.Cmdable
}

// NewTaskNumberSequence construye la secuencia.
func NewTaskNumberSequence(client goredis.Cmdable) *TaskNumberSequence {
	return &TaskNumberSequence{client: client}
}

func sequenceKey(businessID string, day time.Time) string {
	return fmt.Sprintf("diesel:tasknum:%s:%s", businessID, day.UTC().Format("20060102"))
}

// Next incrementa y devuelve el consecutivo del día.
func (s *TaskNumberSequence) Next(ctx context.Context, businessID string, day time.Time) (int64, error) {
	key := sequenceKey(businessID, day)
	var incr *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, keyTTL)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis: siguiente número de tarea: %w", err)
	}
	return incr.Val(), nil
}
