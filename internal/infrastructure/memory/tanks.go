package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// TankRepo implementa repository.TankRepository.
type TankRepo struct{ v view }

func (r *TankRepo) Create(ctx context.Context, tank *entity.Tank) error {
	return r.v.with(func(st *state) error {
		for _, t := range st.tanks {
			if t.StationID == tank.StationID && t.Code == tank.Code {
				return fmt.Errorf("%w: código de tanque %s ya existe en la estación", domain.ErrConflict, tank.Code)
			}
		}
		c := *tank
		st.tanks[tank.ID] = &c
		return nil
	})
}

func (r *TankRepo) Update(ctx context.Context, tank *entity.Tank) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.tanks[tank.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if tank.Capacity.LessThan(cur.CurrentLevel) {
			return fmt.Errorf("%w: capacidad menor al nivel actual", domain.ErrInvalidInput)
		}
		c := *tank
		c.CurrentLevel = cur.CurrentLevel
		st.tanks[tank.ID] = &c
		return nil
	})
}

func (r *TankRepo) GetByID(ctx context.Context, id string) (*entity.Tank, error) {
	var out *entity.Tank
	err := r.v.with(func(st *state) error {
		if t, ok := st.tanks[id]; ok {
			c := *t
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *TankRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tank, error) {
	return r.GetByID(ctx, id)
}

func (r *TankRepo) List(ctx context.Context, businessID string, f repository.TankFilter) ([]*entity.Tank, error) {
	var out []*entity.Tank
	err := r.v.with(func(st *state) error {
		for _, k := range sortedKeys(st.tanks) {
			t := st.tanks[k]
			if t.BusinessID != businessID {
				continue
			}
			if f.StationID != "" && t.StationID != f.StationID {
				continue
			}
			if f.Role != "" && t.Role != f.Role {
				continue
			}
			if f.ActiveOnly && !t.IsActive {
				continue
			}
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *TankRepo) UpdateLevel(ctx context.Context, id string, level decimal.Decimal) error {
	return r.v.with(func(st *state) error {
		t, ok := st.tanks[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.CurrentLevel = level
		t.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// TankMovementRepo implementa repository.TankMovementRepository.
type TankMovementRepo struct{ v view }

func (r *TankMovementRepo) Create(ctx context.Context, movement *entity.TankMovement) error {
	return r.v.with(func(st *state) error {
		c := *movement
		st.movements = append(st.movements, &c)
		return nil
	})
}

func (r *TankMovementRepo) GetByID(ctx context.Context, id string) (*entity.TankMovement, error) {
	var out *entity.TankMovement
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				c := *m
				out = &c
				break
			}
		}
		return nil
	})
	return out, err
}

// List más recientes primero.
func (r *TankMovementRepo) List(ctx context.Context, businessID string, f repository.TankMovementFilter) ([]*entity.TankMovement, error) {
	var out []*entity.TankMovement
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.BusinessID != businessID {
				continue
			}
			if f.StationID != "" && m.StationID != f.StationID {
				continue
			}
			if f.TankID != "" && m.FromTankID != f.TankID && m.ToTankID != f.TankID {
				continue
			}
			if f.TaskID != "" && m.TaskID != f.TaskID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if !inRange(m.MovementAt, f.From, f.To) {
				continue
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovementAt.After(out[j].MovementAt) })
	return page(out, f.Limit, f.Offset), err
}
