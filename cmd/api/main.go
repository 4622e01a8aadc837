package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/Diesel-api/docs"
	"github.com/jhoicas/Diesel-api/internal/application/analytics"
	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/excel"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/gcs"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Diesel-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Diesel-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Diesel-api/internal/interfaces/http"
	"github.com/jhoicas/Diesel-api/pkg/config"
	"github.com/jhoicas/Diesel-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es obligatorio")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engineMetrics := metrics.NewEngineMetrics(reg)

	// Almacén: PostgreSQL (por defecto) o memoria para demos
	var (
		txRunner diesel.TxRunner
		repos    diesel.TxRepos
		sequence ports.TaskNumberSequence
	)
	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		txRunner, repos, sequence = store, store.Repos(), memory.NewSequence()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if _, err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner, repos, sequence = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewTaskNumberSequence(pool)
	}

	// Secuencia de números de tarea en Redis si está configurado
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		sequence = infraredis.NewTaskNumberSequence(client)
	}

	// Evidencias: GCS si hay bucket; en memoria solo fuera de producción
	var evidenceStore ports.EvidenceStore
	switch {
	case cfg.Storage.Bucket != "":
		gcsStore, err := gcs.NewEvidenceStore(ctx, cfg.Storage, log.Component("gcs"))
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Cloud Storage")
		}
		defer gcsStore.Close()
		evidenceStore = gcsStore
	case cfg.App.Env != "production":
		evidenceStore = memory.NewEvidenceStore()
	}
	var evidenceUC *usecase.EvidenceUseCase
	if evidenceStore != nil {
		evidenceUC = usecase.NewEvidenceUseCase(evidenceStore)
	}

	engine := diesel.NewEngine(diesel.EngineDeps{
		TxRunner: txRunner,
		Repos:    repos,
		Sequence: sequence,
		Policy: dieselrules.Policy{
			Tolerance:      cfg.Diesel.DiscrepancyTolerance,
			ReadingEpsilon: cfg.Diesel.ReadingEpsilon,
		},
		TaskPrefix: cfg.Diesel.TaskPrefix,
		Metrics:    engineMetrics,
		Log:        log.Component("engine"),
	})

	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		loc = time.UTC
	}
	deliveryNoteUC := diesel.NewDeliveryNoteUseCase(repos.Tasks, repos.Tanks, infrapdf.NewMarotoDeliveryNoteGenerator(loc))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Diesel API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		PumpMeterUC:     usecase.NewPumpMeterUseCase(repos.Meters),
		TankUC:          usecase.NewTankUseCase(txRunner, repos.Tanks, engine.Ledger),
		StationConfigUC: usecase.NewStationConfigUseCase(repos.StationConfigs, repos.Tanks, repos.Meters),
		EvidenceUC:      evidenceUC,
		Readings:        engine.Readings,
		Receiving:       engine.Receiving,
		Ledger:          engine.Ledger,
		Consumptions:    engine.Consumptions,
		DeliveryNote:    deliveryNoteUC,
		Reports:         analytics.NewReportsUseCase(repos.Movements, repos.Tanks, repos.Tasks),
		Exporter:        excel.NewReportExporter(),
		Gatherer:        reg,
		JWTSecret:       cfg.JWT.Secret,
		AppName:         cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
