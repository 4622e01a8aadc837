package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/analytics"
	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestReports_ResumenYNiveles(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	actor := diesel.Actor{BusinessID: "biz-1", UserID: "u"}
	ledger := diesel.NewLedgerUseCase(store, repos.Movements, ports.NopMetrics{}, zerolog.Nop())

	for _, tank := range []*entity.Tank{
		{ID: "main", BusinessID: "biz-1", StationID: "st-1", Code: "M", Role: entity.TankRoleMain, Capacity: d("5000"), MinLevel: d("100"), IsActive: true},
		{ID: "gen", BusinessID: "biz-1", StationID: "st-1", Code: "G", Role: entity.TankRoleGenerator, Capacity: d("1000"), MinLevel: d("300"), IsActive: true},
	} {
		require.NoError(t, repos.Tanks.Create(ctx, tank))
	}
	moves := []diesel.MovementInput{
		{Spec: entity.Adjustment{TankID: "main", Direction: entity.AdjustmentIn, Notes: "apertura"}, Quantity: d("2000")},
		{Spec: entity.Receiving{ToTankID: "main", TaskID: "task-1"}, Quantity: d("500")},
		{Spec: entity.Transfer{FromTankID: "main", ToTankID: "gen"}, Quantity: d("400")},
		{Spec: entity.Consumption{FromTankID: "gen", GeneratorID: "G1"}, Quantity: d("150")},
		{Spec: entity.Adjustment{TankID: "main", Direction: entity.AdjustmentOut, Notes: "evaporación"}, Quantity: d("10")},
	}
	for _, m := range moves {
		_, err := ledger.Append(ctx, actor, m)
		require.NoError(t, err)
	}
	require.NoError(t, repos.Tasks.Create(ctx, &entity.ReceivingTask{
		ID: "task-1", BusinessID: "biz-1", StationID: "st-1", TaskNumber: "RCV-1",
		TaskDate: time.Now().UTC(), Status: entity.TaskStatusCompleted,
		QuantityReceivedAtStation: dp("500"), Discrepancy: true,
	}))
	require.NoError(t, repos.Tasks.Create(ctx, &entity.ReceivingTask{
		ID: "task-2", BusinessID: "biz-1", StationID: "st-1", TaskNumber: "RCV-2",
		TaskDate: time.Now().UTC(), Status: entity.TaskStatusPending,
	}))

	uc := analytics.NewReportsUseCase(repos.Movements, repos.Tanks, repos.Tasks)

	sum, err := uc.ConsumptionSummary(ctx, "biz-1", "st-1", nil, nil)
	require.NoError(t, err)
	assert.True(t, d("500").Equal(sum.TotalReceived))
	assert.True(t, d("150").Equal(sum.TotalConsumed))
	assert.True(t, d("400").Equal(sum.TotalTransferred))
	assert.True(t, d("2000").Equal(sum.TotalAdjustedIn))
	assert.True(t, d("10").Equal(sum.TotalAdjustedOut))
	assert.True(t, d("2340").Equal(sum.CurrentStock))
	assert.Equal(t, 1, sum.TasksCompleted)
	assert.Equal(t, 1, sum.Discrepancies)

	levels, err := uc.TankLevels(ctx, "biz-1", "st-1")
	require.NoError(t, err)
	assert.Len(t, levels.Tanks, 2)
	assert.True(t, d("6000").Equal(levels.TotalCapacity))
	assert.True(t, d("2340").Equal(levels.TotalLevel))
	assert.Equal(t, 1, levels.BelowMinCount)

	tasks, err := uc.ReceivingTasks(ctx, "biz-1", "", nil, nil)
	require.NoError(t, err)
	assert.Len(t, tasks.Rows, 2)
	assert.Equal(t, 1, tasks.ByStatus["completed"])
	assert.Equal(t, 1, tasks.ByStatus["pending"])
	assert.True(t, d("500").Equal(tasks.TotalReceived))
}
