package diesel

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/Diesel-api/internal/application/ports"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
)

// Engine casos de uso del motor armados sobre un mismo TxRunner.
type Engine struct {
	Readings     *ReadingUseCase
	Ledger       *LedgerUseCase
	Receiving    *ReceivingUseCase
	Consumptions *ConsumptionUseCase
}

// EngineDeps dependencias del motor. Repos son los repositorios fuera de transacción
// (consultas); las escrituras pasan siempre por TxRunner.
type EngineDeps struct {
	TxRunner   TxRunner
	Repos      TxRepos
	Sequence   ports.TaskNumberSequence
	Policy     dieselrules.Policy
	TaskPrefix string
	Metrics    ports.EngineMetrics
	Log        zerolog.Logger
}

// NewEngine arma lecturas, libro, recepciones y consumos.
func NewEngine(d EngineDeps) *Engine {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	readings := NewReadingUseCase(d.TxRunner, d.Repos.Readings, d.Repos.Meters, d.Policy, d.Metrics,
		d.Log.With().Str("component", "readings").Logger())
	ledger := NewLedgerUseCase(d.TxRunner, d.Repos.Movements, d.Metrics,
		d.Log.With().Str("component", "ledger").Logger())
	return &Engine{
		Readings: readings,
		Ledger:   ledger,
		Receiving: NewReceivingUseCase(ReceivingDeps{
			TxRunner:   d.TxRunner,
			Tasks:      d.Repos.Tasks,
			Readings:   readings,
			Ledger:     ledger,
			Sequence:   d.Sequence,
			Policy:     d.Policy,
			TaskPrefix: d.TaskPrefix,
			Metrics:    d.Metrics,
			Log:        d.Log.With().Str("component", "receiving").Logger(),
		}),
		Consumptions: NewConsumptionUseCase(d.TxRunner, d.Repos.Consumptions, ledger,
			d.Log.With().Str("component", "consumption").Logger()),
	}
}
