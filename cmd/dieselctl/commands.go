package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Diesel-api/pkg/config"
	"github.com/jhoicas/Diesel-api/pkg/jwt"
	"github.com/jhoicas/Diesel-api/pkg/logger"
)

// auditor consultas de solo lectura usadas por reconcile y audit-meter.
type auditor interface {
	ReconcileTask(ctx context.Context, businessID, taskID string) (*dto.ReconciliationResponse, error)
	AuditMeter(ctx context.Context, businessID, meterID string) (*dto.MeterAuditResponse, error)
}

// engineAuditor adapta los casos de uso del motor a auditor.
type engineAuditor struct {
	receiving *diesel.ReceivingUseCase
	readings  *diesel.ReadingUseCase
}

func (a engineAuditor) ReconcileTask(ctx context.Context, businessID, taskID string) (*dto.ReconciliationResponse, error) {
	audit, err := a.receiving.Audit(ctx, businessID, taskID)
	if err != nil {
		return nil, err
	}
	out := dto.NewReconciliationResponse(audit.Task, audit.Reconciliation, audit.Problem)
	return &out, nil
}

func (a engineAuditor) AuditMeter(ctx context.Context, businessID, meterID string) (*dto.MeterAuditResponse, error) {
	audit, err := a.readings.Audit(ctx, businessID, meterID)
	if err != nil {
		return nil, err
	}
	out := dto.NewMeterAuditResponse(audit.Meter, audit.Verdicts)
	return &out, nil
}

// cli estado compartido por los subcomandos. openAuditor se reemplaza en los tests.
type cli struct {
	log         *logger.Logger
	business    string
	openAuditor func(ctx context.Context, cfg *config.Config) (auditor, func(), error)
	loadConfig  func() (*config.Config, error)
}

func newRootCmd(log *logger.Logger) *cobra.Command {
	c := &cli{log: log, openAuditor: openPostgresAuditor, loadConfig: config.Load}
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dieselctl",
		Short:         "Herramientas operativas del API de diesel",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&c.business, "business", "", "negocio dueño de los registros")

	root.AddCommand(c.migrateCmd(), c.tokenCmd(), c.reconcileCmd(), c.auditMeterCmd())
	return root
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes en PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB, c.log.Component("postgres"))
			if err != nil {
				return err
			}
			defer pool.Close()
			applied, err := postgres.Migrate(ctx, pool, c.log.Component("migrate"))
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			c.log.Info().Int("applied", len(applied)).Msg("migraciones aplicadas")
			return nil
		},
	}
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		id      jwt.Identity
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado con JWT_SECRET (entornos de desarrollo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			id.BusinessID = c.business
			if id.UserID == "" || id.BusinessID == "" {
				return fmt.Errorf("--user y --business son obligatorios")
			}
			switch id.Role {
			case jwt.RoleAdmin, jwt.RoleSupervisor, jwt.RoleOperator:
			default:
				return fmt.Errorf("rol desconocido %q", id.Role)
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, id, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&id.UserID, "user", "", "usuario (recorded_by)")
	cmd.Flags().StringVar(&id.StationID, "station", "", "estación por defecto")
	cmd.Flags().StringVar(&id.Role, "role", jwt.RoleOperator, "admin | supervisor | operador")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia; 0 = JWT_EXPIRATION_MINUTES")
	return cmd
}

func (c *cli) reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <task-id>",
		Short: "Recalcula la conciliación de una tarea con la tolerancia vigente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAuditor(cmd, func(ctx context.Context, a auditor) (any, error) {
				return a.ReconcileTask(ctx, c.business, args[0])
			})
		},
	}
}

func (c *cli) auditMeterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit-meter <meter-id>",
		Short: "Reclasifica el historial de lecturas de un contador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withAuditor(cmd, func(ctx context.Context, a auditor) (any, error) {
				return a.AuditMeter(ctx, c.business, args[0])
			})
		},
	}
}

func (c *cli) withAuditor(cmd *cobra.Command, fn func(ctx context.Context, a auditor) (any, error)) error {
	if c.business == "" {
		return fmt.Errorf("--business es obligatorio")
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	a, closeFn, err := c.openAuditor(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openPostgresAuditor(ctx context.Context, cfg *config.Config) (auditor, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.DB, logger.Nop().Zerolog())
	if err != nil {
		return nil, nil, err
	}
	repos := postgres.NewRepos(pool)
	engine := diesel.NewEngine(diesel.EngineDeps{
		TxRunner: postgres.NewTxRunner(pool),
		Repos:    repos,
		Sequence: postgres.NewTaskNumberSequence(pool),
		Policy: dieselrules.Policy{
			Tolerance:      cfg.Diesel.DiscrepancyTolerance,
			ReadingEpsilon: cfg.Diesel.ReadingEpsilon,
		},
		TaskPrefix: cfg.Diesel.TaskPrefix,
		Log:        logger.Nop().Zerolog(),
	})
	return engineAuditor{receiving: engine.Receiving, readings: engine.Readings}, pool.Close, nil
}
