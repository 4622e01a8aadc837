package diesel_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

func TestLedger_TrasladoEntreTanques(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "main", entity.TankRoleMain, "5000", "3000")
	f.addTank(t, "gen", entity.TankRoleGenerator, "1000", "200")

	mov, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Transfer{FromTankID: "main", ToTankID: "gen"},
		Quantity: d("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeTransfer, mov.Type)
	assert.Equal(t, station, mov.StationID)
	assert.True(t, d("2500").Equal(f.tankLevel(t, "main")))
	assert.True(t, d("700").Equal(f.tankLevel(t, "gen")))
}

func TestLedger_ExcesoDeCapacidadNoRecorta(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "main", entity.TankRoleMain, "5000", "3000")
	f.addTank(t, "gen", entity.TankRoleGenerator, "1000", "200")

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Transfer{FromTankID: "main", ToTankID: "gen"},
		Quantity: d("800.5"),
	})
	require.ErrorIs(t, err, domain.ErrOverCapacity)

	// el débito del origen se revierte con la transacción
	assert.True(t, d("3000").Equal(f.tankLevel(t, "main")))
	assert.True(t, d("200").Equal(f.tankLevel(t, "gen")))
	movs, err := f.ledger.List(f.ctx, business, repository.TankMovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestLedger_VolumenInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "gen", entity.TankRoleGenerator, "1000", "100")

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Consumption{FromTankID: "gen", GeneratorID: "G1"},
		Quantity: d("100.01"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientVolume)
	assert.True(t, d("100").Equal(f.tankLevel(t, "gen")))
}

func TestLedger_AjusteRequiereNotas(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "main", entity.TankRoleMain, "5000", "0")

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: "main", Direction: entity.AdjustmentIn},
		Quantity: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mov, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: "main", Direction: entity.AdjustmentIn, Notes: "medición con varilla"},
		Quantity: d("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "main", mov.ToTankID)
	assert.Empty(t, mov.FromTankID)
	assert.True(t, d("10").Equal(f.tankLevel(t, "main")))
}

func TestLedger_TanquesDeEstacionesDistintas(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "main", entity.TankRoleMain, "5000", "3000")
	require.NoError(t, f.store.Repos().Tanks.Create(f.ctx, &entity.Tank{
		ID: "other", BusinessID: business, StationID: "st-2", Code: "other",
		Role: entity.TankRoleMain, Capacity: d("5000"), IsActive: true,
	}))

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Transfer{FromTankID: "main", ToTankID: "other"},
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ConsumosConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "gen", entity.TankRoleGenerator, "2000", "1000")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
				Spec:     entity.Consumption{FromTankID: "gen", GeneratorID: "G1"},
				Quantity: d("100"),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientVolume) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, rejected)
	assert.True(t, f.tankLevel(t, "gen").IsZero())
}

func TestLedger_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)
	f.addTank(t, "main", entity.TankRoleMain, "5000", "100")

	_, err := f.ledger.Append(f.ctx, f.actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: "main", Direction: entity.AdjustmentOut, Notes: "x"},
		Quantity: d("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
