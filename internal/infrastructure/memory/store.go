// Package memory implementa los repositorios de diesel en memoria. Sirve para pruebas
// y para levantar la API sin base de datos (STORE_DRIVER=memory).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// Store guarda todos los agregados tras un único mutex. Run serializa las
// transacciones y restaura la foto previa si fn falla.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	meters       map[string]*entity.PumpMeter
	readings     []*entity.PumpReading
	tanks        map[string]*entity.Tank
	movements    []*entity.TankMovement
	tasks        map[string]*entity.ReceivingTask
	consumptions []*entity.GeneratorConsumption
	configs      map[string]*entity.StationConfig
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		meters:  make(map[string]*entity.PumpMeter),
		tanks:   make(map[string]*entity.Tank),
		tasks:   make(map[string]*entity.ReceivingTask),
		configs: make(map[string]*entity.StationConfig),
	}}
}

func (s *state) clone() *state {
	out := &state{
		meters:       make(map[string]*entity.PumpMeter, len(s.meters)),
		readings:     append([]*entity.PumpReading(nil), s.readings...),
		tanks:        make(map[string]*entity.Tank, len(s.tanks)),
		movements:    append([]*entity.TankMovement(nil), s.movements...),
		tasks:        make(map[string]*entity.ReceivingTask, len(s.tasks)),
		consumptions: append([]*entity.GeneratorConsumption(nil), s.consumptions...),
		configs:      make(map[string]*entity.StationConfig, len(s.configs)),
	}
	for k, v := range s.meters {
		out.meters[k] = copyMeter(v)
	}
	for k, v := range s.tanks {
		c := *v
		out.tanks[k] = &c
	}
	for k, v := range s.tasks {
		out.tasks[k] = copyTask(v)
	}
	for k, v := range s.configs {
		out.configs[k] = copyConfig(v)
	}
	return out
}

// view acceso al estado; dentro de Run el mutex ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) with(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.st)
}

// Run implementa diesel.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(r diesel.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(s.repos(view{s: s, inTx: true})); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() diesel.TxRepos {
	return s.repos(view{s: s})
}

func (s *Store) repos(v view) diesel.TxRepos {
	return diesel.TxRepos{
		Meters:         &PumpMeterRepo{v},
		Readings:       &PumpReadingRepo{v},
		Tanks:          &TankRepo{v},
		Movements:      &TankMovementRepo{v},
		Tasks:          &ReceivingTaskRepo{v},
		Consumptions:   &ConsumptionRepo{v},
		StationConfigs: &StationConfigRepo{v},
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// page aplica offset/limit; limit <= 0 devuelve todo.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyMeter(m *entity.PumpMeter) *entity.PumpMeter {
	c := *m
	if m.LastReadingAt != nil {
		t := *m.LastReadingAt
		c.LastReadingAt = &t
	}
	return &c
}

func copyTask(t *entity.ReceivingTask) *entity.ReceivingTask {
	c := *t
	c.Stages = make([]entity.StageRecord, len(t.Stages))
	for i, st := range t.Stages {
		st.ReadingIDs = append([]string(nil), st.ReadingIDs...)
		c.Stages[i] = st
	}
	return &c
}

func copyConfig(c *entity.StationConfig) *entity.StationConfig {
	out := *c
	out.ReceivingTanks = append([]string(nil), c.ReceivingTanks...)
	out.MainTanks = append([]string(nil), c.MainTanks...)
	out.GeneratorTanks = append([]string(nil), c.GeneratorTanks...)
	out.IntakePumps = append([]string(nil), c.IntakePumps...)
	out.OutputPumps = append([]string(nil), c.OutputPumps...)
	return &out
}
