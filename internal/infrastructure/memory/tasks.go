package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// ReceivingTaskRepo implementa repository.ReceivingTaskRepository.
type ReceivingTaskRepo struct{ v view }

func (r *ReceivingTaskRepo) Create(ctx context.Context, task *entity.ReceivingTask) error {
	return r.v.with(func(st *state) error {
		for _, t := range st.tasks {
			if t.BusinessID == task.BusinessID && t.TaskNumber == task.TaskNumber {
				return fmt.Errorf("%w: número de tarea %s ya existe", domain.ErrConflict, task.TaskNumber)
			}
		}
		st.tasks[task.ID] = copyTask(task)
		return nil
	})
}

func (r *ReceivingTaskRepo) GetByID(ctx context.Context, id string) (*entity.ReceivingTask, error) {
	var out *entity.ReceivingTask
	err := r.v.with(func(st *state) error {
		if t, ok := st.tasks[id]; ok {
			out = copyTask(t)
		}
		return nil
	})
	return out, err
}

func (r *ReceivingTaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReceivingTask, error) {
	return r.GetByID(ctx, id)
}

func (r *ReceivingTaskRepo) Save(ctx context.Context, task *entity.ReceivingTask) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.tasks[task.ID]; !ok {
			return domain.ErrNotFound
		}
		st.tasks[task.ID] = copyTask(task)
		return nil
	})
}

// List más recientes primero (fecha de tarea, luego número).
func (r *ReceivingTaskRepo) List(ctx context.Context, businessID string, f repository.ReceivingTaskFilter) ([]*entity.ReceivingTask, error) {
	var out []*entity.ReceivingTask
	err := r.v.with(func(st *state) error {
		for _, t := range st.tasks {
			if t.BusinessID != businessID {
				continue
			}
			if f.StationID != "" && t.StationID != f.StationID {
				continue
			}
			if f.EmployeeID != "" && t.EmployeeID != f.EmployeeID {
				continue
			}
			if f.SupplierID != "" && t.SupplierID != f.SupplierID {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if !inRange(t.TaskDate, f.From, f.To) {
				continue
			}
			out = append(out, copyTask(t))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TaskDate.Equal(out[j].TaskDate) {
			return out[i].TaskDate.After(out[j].TaskDate)
		}
		return out[i].TaskNumber > out[j].TaskNumber
	})
	return page(out, f.Limit, f.Offset), err
}

// ConsumptionRepo implementa repository.GeneratorConsumptionRepository.
type ConsumptionRepo struct{ v view }

func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.GeneratorConsumption) error {
	return r.v.with(func(st *state) error {
		cp := *c
		st.consumptions = append(st.consumptions, &cp)
		return nil
	})
}

func (r *ConsumptionRepo) List(ctx context.Context, businessID string, f repository.ConsumptionFilter) ([]*entity.GeneratorConsumption, error) {
	var out []*entity.GeneratorConsumption
	err := r.v.with(func(st *state) error {
		for _, c := range st.consumptions {
			if c.BusinessID != businessID {
				continue
			}
			if f.StationID != "" && c.StationID != f.StationID {
				continue
			}
			if f.GeneratorID != "" && c.GeneratorID != f.GeneratorID {
				continue
			}
			if f.TankID != "" && c.TankID != f.TankID {
				continue
			}
			if !inRange(c.ConsumptionDate, f.From, f.To) {
				continue
			}
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConsumptionDate.After(out[j].ConsumptionDate) })
	return page(out, f.Limit, f.Offset), err
}

// StationConfigRepo implementa repository.StationConfigRepository.
type StationConfigRepo struct{ v view }

func (r *StationConfigRepo) Get(ctx context.Context, stationID string) (*entity.StationConfig, error) {
	var out *entity.StationConfig
	err := r.v.with(func(st *state) error {
		if c, ok := st.configs[stationID]; ok {
			out = copyConfig(c)
		}
		return nil
	})
	return out, err
}

func (r *StationConfigRepo) Upsert(ctx context.Context, cfg *entity.StationConfig) error {
	return r.v.with(func(st *state) error {
		if cur, ok := st.configs[cfg.StationID]; ok && cur.BusinessID != cfg.BusinessID {
			return fmt.Errorf("%w: la estación %s pertenece a otro negocio", domain.ErrForbidden, cfg.StationID)
		}
		st.configs[cfg.StationID] = copyConfig(cfg)
		return nil
	})
}
