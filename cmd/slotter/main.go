package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/slotter/internal/cli"
	"github.com/alexanderramin/slotter/internal/config"
	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/export"
	"github.com/alexanderramin/slotter/internal/logger"
	"github.com/alexanderramin/slotter/internal/metrics"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/alexanderramin/slotter/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// SLOTTER_CONFIG points at a config file; otherwise slotter.yaml is
	// looked up in the usual places.
	cfg, err := config.Load(os.Getenv("SLOTTER_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheus(registry, "")
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); werr != nil {
				log.Warn("writing metrics textfile failed", zap.String("path", cfg.Metrics.Textfile), zap.Error(werr))
			}
		}()
	}

	// Wire repositories
	slotRepo := repository.NewSQLiteSlotRepo(database)
	registrationRepo := repository.NewSQLiteRegistrationRepo(database)
	statusRepo := repository.NewSQLiteStatusRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(log)

	app := &cli.App{
		Planning: service.NewPlanningService(cfg.Period, slotRepo, statusRepo, uow, log, recorder, observer),
		Registrations: service.NewRegistrationService(cfg.Period, registrationRepo, slotRepo, uow,
			service.RegistrationOptions{EnforcePermission: cfg.Registration.EnforcePermission},
			log, recorder, observer),
		Catalog: service.NewCatalogService(slotRepo, uow, observer),
		Plans:   service.NewPlanService(cfg.Period, slotRepo, statusRepo, log),

		Period:           cfg.Period,
		RegistrationOpen: cfg.Registration.Open,
		Export:           export.Options{CSVBOM: cfg.Export.CSVBOM},
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
