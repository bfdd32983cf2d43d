package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctordirectory/internal/adapters/database"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func main() {
	file := flag.String("file", "data/contacts.csv", "CSV file with one doctor per row")
	flag.Parse()

	if err := run(*file); err != nil {
		log.Error().Err(err).Str("file", *file).Msg("import failed")
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before main exits
func run(file string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger(cfg.App.Name+"-import", cfg.App.Env)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	importer := services.NewDoctorImporter(database.NewDoctorAdapter(pgClient))
	report, err := importer.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("import aborted after %d rows: %w", report.Imported, err)
	}

	logger.Info().
		Str("file", file).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("import complete")
	for _, e := range report.Errors {
		logger.Warn().Msg(e)
	}
	return nil
}
