package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ev-value-index/config"
	"ev-value-index/models"
	"ev-value-index/scraper/evspecs"
	"ev-value-index/services"
	"ev-value-index/storage"
	"ev-value-index/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Error("%v", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== EV Value Index pipeline starting ===")
	logger.Info("Config: raw=%s | clean=%s | fetch=%t | postgres=%t",
		cfg.RawCSVPath, cfg.CleanCSVPath, cfg.FetchEnabled, cfg.PostgresEnabled)

	engine, err := services.NewEngine(services.ScoringConfig{
		ElectricityCostPerUnit: cfg.ElectricityCostPerUnit,
		Weights: services.Weights{
			Range:         cfg.WeightRange,
			Efficiency:    cfg.WeightEfficiency,
			Affordability: cfg.WeightAffordability,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}

	if cfg.FetchEnabled {
		if err := fetchRaw(ctx, cfg, logger); err != nil {
			return err
		}
	}

	raw, err := storage.ReadRawFile(cfg.RawCSVPath)
	if err != nil {
		if errors.Is(err, storage.ErrMissingColumns) {
			return fmt.Errorf("raw input is structurally invalid: %w", err)
		}
		return err
	}
	logger.Info("Raw records: %d", len(raw))

	pipeline := services.NewPipeline(services.NewValidator(services.DefaultBounds(), logger), engine)
	scored := pipeline.Process(raw)
	if len(scored) == 0 {
		logger.Warn("No records survived validation and scoring, writing an empty snapshot")
	}

	csvWriter, pg, err := openSinks(cfg, logger)
	if err != nil {
		return err
	}
	if pg != nil {
		defer pg.Close()
	}

	if err := writeScored(csvWriter, pg, scored); err != nil {
		return err
	}
	logger.Info("Clean data saved at %s", cfg.CleanCSVPath)

	report := scored
	if pg != nil {
		logger.Info("Scored snapshot stored in PostgreSQL (table: ev_scores)")
		stored, err := pg.FetchAll()
		if err != nil {
			logger.Error("Failed to fetch snapshot from DB for insights: %v", err)
		} else {
			report = stored
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(report))

	fmt.Printf("  Done. Raw CSV → %s | Clean CSV → %s\n\n", cfg.RawCSVPath, cfg.CleanCSVPath)
	return nil
}

// fetchRaw scrapes the configured sources and writes the raw CSV snapshot.
func fetchRaw(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return err
	}

	browser, err := evspecs.NewBrowser(cfg, logger)
	if err != nil {
		return err
	}
	defer browser.Close()

	records, err := evspecs.New(cfg, logger, browser).Fetch(ctx, sources)
	if err != nil {
		return err
	}

	csvWriter, err := storage.NewRawCSVWriter(cfg.RawCSVPath)
	if err != nil {
		return err
	}
	if err := writeRaw(csvWriter, records); err != nil {
		return err
	}
	logger.Info("Raw records saved to %s", cfg.RawCSVPath)
	return nil
}

// writeRaw writes records and closes w.
func writeRaw(w storage.RawWriter, records []models.RawRecord) error {
	if err := w.WriteRaw(records); err != nil {
		_ = w.Close()
		return fmt.Errorf("write raw csv: %w", err)
	}
	return w.Close()
}

// writeScored stores the snapshot in every sink and closes the CSV writer.
// The CSV is flushed on Close, so a failed close is a failed write.
func writeScored(csvWriter storage.ScoredWriter, pg *storage.PostgresWriter, scored []models.ScoredRecord) error {
	sinks := []storage.ScoredWriter{csvWriter}
	if pg != nil {
		sinks = append(sinks, pg)
	}
	for _, s := range sinks {
		if err := s.WriteScored(scored); err != nil {
			_ = csvWriter.Close()
			return fmt.Errorf("store scored snapshot: %w", err)
		}
	}
	if err := csvWriter.Close(); err != nil {
		return fmt.Errorf("close clean csv: %w", err)
	}
	return nil
}

// openSinks opens the clean CSV and, when enabled, the Postgres mirror.
// Postgres is connected first so a dead database aborts the run before the
// CSV is truncated.
func openSinks(cfg *config.Config, logger *utils.Logger) (*storage.CSVWriter, *storage.PostgresWriter, error) {
	var pg *storage.PostgresWriter
	if cfg.PostgresEnabled {
		var err error
		pg, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Make sure PostgreSQL is reachable or set POSTGRES_ENABLED=false")
			return nil, nil, err
		}
	}

	csvWriter, err := storage.NewScoredCSVWriter(cfg.CleanCSVPath)
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, nil, err
	}
	return csvWriter, pg, nil
}
