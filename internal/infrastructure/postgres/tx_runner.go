package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
)

var _ diesel.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos diesel.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repos sobre un pool (fuera de tx) o una tx.
func NewRepos(q Querier) diesel.TxRepos {
	return diesel.TxRepos{
		Meters:         NewPumpMeterRepository(q),
		Readings:       NewPumpReadingRepository(q),
		Tanks:          NewTankRepository(q),
		Movements:      NewTankMovementRepository(q),
		Tasks:          NewReceivingTaskRepository(q),
		Consumptions:   NewGeneratorConsumptionRepository(q),
		StationConfigs: NewStationConfigRepository(q),
	}
}
