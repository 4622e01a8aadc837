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

// PumpMeterRepo implementa repository.PumpMeterRepository.
type PumpMeterRepo struct{ v view }

func (r *PumpMeterRepo) Create(ctx context.Context, meter *entity.PumpMeter) error {
	return r.v.with(func(st *state) error {
		for _, m := range st.meters {
			if m.StationID == meter.StationID && m.Code == meter.Code {
				return fmt.Errorf("%w: código de contador %s ya existe en la estación", domain.ErrConflict, meter.Code)
			}
		}
		st.meters[meter.ID] = copyMeter(meter)
		return nil
	})
}

func (r *PumpMeterRepo) Update(ctx context.Context, meter *entity.PumpMeter) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.meters[meter.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := copyMeter(meter)
		c.CurrentReading = cur.CurrentReading
		c.LastReadingAt = cur.LastReadingAt
		st.meters[meter.ID] = c
		return nil
	})
}

func (r *PumpMeterRepo) GetByID(ctx context.Context, id string) (*entity.PumpMeter, error) {
	var out *entity.PumpMeter
	err := r.v.with(func(st *state) error {
		if m, ok := st.meters[id]; ok {
			out = copyMeter(m)
		}
		return nil
	})
	return out, err
}

func (r *PumpMeterRepo) GetForUpdate(ctx context.Context, id string) (*entity.PumpMeter, error) {
	return r.GetByID(ctx, id)
}

func (r *PumpMeterRepo) List(ctx context.Context, businessID string, f repository.PumpMeterFilter) ([]*entity.PumpMeter, error) {
	var out []*entity.PumpMeter
	err := r.v.with(func(st *state) error {
		for _, k := range sortedKeys(st.meters) {
			m := st.meters[k]
			if m.BusinessID != businessID {
				continue
			}
			if f.StationID != "" && m.StationID != f.StationID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.ActiveOnly && !m.IsActive {
				continue
			}
			out = append(out, copyMeter(m))
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *PumpMeterRepo) UpdateReading(ctx context.Context, id string, value decimal.Decimal, at time.Time) error {
	return r.v.with(func(st *state) error {
		m, ok := st.meters[id]
		if !ok {
			return domain.ErrNotFound
		}
		m.CurrentReading = value
		m.LastReadingAt = &at
		m.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// PumpReadingRepo implementa repository.PumpReadingRepository.
type PumpReadingRepo struct{ v view }

func (r *PumpReadingRepo) Create(ctx context.Context, reading *entity.PumpReading) error {
	return r.v.with(func(st *state) error {
		c := *reading
		st.readings = append(st.readings, &c)
		return nil
	})
}

// List más recientes primero.
func (r *PumpReadingRepo) List(ctx context.Context, businessID string, f repository.PumpReadingFilter) ([]*entity.PumpReading, error) {
	var out []*entity.PumpReading
	err := r.v.with(func(st *state) error {
		for _, rd := range st.readings {
			if rd.BusinessID != businessID {
				continue
			}
			if f.PumpMeterID != "" && rd.PumpMeterID != f.PumpMeterID {
				continue
			}
			if f.TaskID != "" && rd.TaskID != f.TaskID {
				continue
			}
			if f.AnomalousOnly && !rd.Anomalous {
				continue
			}
			if !inRange(rd.ReadingAt, f.From, f.To) {
				continue
			}
			c := *rd
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReadingAt.After(out[j].ReadingAt) })
	return page(out, f.Limit, f.Offset), err
}

func (r *PumpReadingRepo) ListByMeter(ctx context.Context, meterID string) ([]*entity.PumpReading, error) {
	out := r.byMeter(meterID)
	return out, nil
}

func (r *PumpReadingRepo) byMeter(meterID string) []*entity.PumpReading {
	var out []*entity.PumpReading
	_ = r.v.with(func(st *state) error {
		for _, rd := range st.readings {
			if rd.PumpMeterID == meterID {
				c := *rd
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ReadingAt.Equal(out[j].ReadingAt) {
			return out[i].ReadingAt.Before(out[j].ReadingAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *PumpReadingRepo) AcceptedAround(ctx context.Context, meterID string, at time.Time) (prev, next *entity.PumpReading, err error) {
	for _, rd := range r.byMeter(meterID) {
		if rd.Anomalous {
			continue
		}
		if !rd.ReadingAt.After(at) {
			prev = rd
			continue
		}
		if next == nil {
			next = rd
		}
	}
	return prev, next, nil
}
