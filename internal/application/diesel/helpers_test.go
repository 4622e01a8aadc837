package diesel_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/memory"
)

const (
	business = "biz-1"
	station  = "st-1"
)

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func tp(t time.Time) *time.Time { return &t }

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	actor       diesel.Actor
	readings    *diesel.ReadingUseCase
	ledger      *diesel.LedgerUseCase
	receiving   *diesel.ReceivingUseCase
	consumption *diesel.ConsumptionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithMetrics(t, ports.NopMetrics{})
}

func newFixtureWithMetrics(t *testing.T, metrics ports.EngineMetrics) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()
	policy := dieselrules.DefaultPolicy()

	readings := diesel.NewReadingUseCase(store, repos.Readings, repos.Meters, policy, metrics, log)
	ledger := diesel.NewLedgerUseCase(store, repos.Movements, metrics, log)
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		actor:    diesel.Actor{BusinessID: business, UserID: "user-1"},
		readings: readings,
		ledger:   ledger,
		receiving: diesel.NewReceivingUseCase(diesel.ReceivingDeps{
			TxRunner: store,
			Tasks:    repos.Tasks,
			Readings: readings,
			Ledger:   ledger,
			Sequence: memory.NewSequence(),
			Policy:   policy,
			Metrics:  metrics,
			Log:      log,
		}),
		consumption: diesel.NewConsumptionUseCase(store, repos.Consumptions, ledger, log),
	}
}

func (f *fixture) addTank(t *testing.T, id string, role entity.TankRole, capacity, level string) {
	t.Helper()
	require.NoError(t, f.store.Repos().Tanks.Create(f.ctx, &entity.Tank{
		ID:           id,
		BusinessID:   business,
		StationID:    station,
		Code:         id,
		Name:         id,
		Role:         role,
		Capacity:     d(capacity),
		CurrentLevel: d(level),
		IsActive:     true,
	}))
}

func (f *fixture) addMeter(t *testing.T, id string, typ entity.PumpType, reading string) {
	t.Helper()
	require.NoError(t, f.store.Repos().Meters.Create(f.ctx, &entity.PumpMeter{
		ID:             id,
		BusinessID:     business,
		StationID:      station,
		Code:           id,
		Name:           id,
		Type:           typ,
		InitialReading: d(reading),
		CurrentReading: d(reading),
		IsActive:       true,
	}))
}

func (f *fixture) tankLevel(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	tank, err := f.store.Repos().Tanks.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, tank)
	return tank.CurrentLevel
}

func (f *fixture) meterReading(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	m, err := f.store.Repos().Meters.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.CurrentReading
}

// station con tanque de recepción, tanque de generador, bomba del proveedor y bomba de entrada.
func (f *fixture) standardStation(t *testing.T) {
	t.Helper()
	f.addTank(t, "tank-rcv", entity.TankRoleReceiving, "10000", "1000")
	f.addTank(t, "tank-gen", entity.TankRoleGenerator, "2000", "500")
	f.addMeter(t, "pump-sup", entity.PumpTypeSupplier, "10000")
	f.addMeter(t, "pump-in", entity.PumpTypeIntake, "5000")
}

func (f *fixture) newTask(t *testing.T) *entity.ReceivingTask {
	t.Helper()
	task, err := f.receiving.Create(f.ctx, f.actor, diesel.CreateTaskInput{
		StationID:  station,
		TankerID:   "tanker-1",
		SupplierID: "supplier-1",
		TaskDate:   tp(t0),
	})
	require.NoError(t, err)
	return task
}

// advance aplica las transiciones en orden y exige que todas pasen.
func (f *fixture) advance(t *testing.T, taskID string, payloads ...entity.StagePayload) *entity.ReceivingTask {
	t.Helper()
	var task *entity.ReceivingTask
	for _, p := range payloads {
		var err error
		task, err = f.receiving.Transition(f.ctx, f.actor, taskID, p)
		require.NoError(t, err, "transición a %s", p.Status())
	}
	return task
}

// toAtStation pending -> at_station con lecturas del proveedor before/after.
func toAtStation(supBefore, supAfter string) []entity.StagePayload {
	return []entity.StagePayload{
		entity.StartedPayload{},
		entity.AtSupplierPayload{},
		entity.LoadingPayload{SupplierPumpID: "pump-sup", SupplierPumpBefore: dp(supBefore)},
		entity.ReturningPayload{SupplierPumpAfter: dp(supAfter)},
		entity.AtStationPayload{},
	}
}
