package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"transit-analytics/internal/config"
	"transit-analytics/internal/model"
	"transit-analytics/internal/pipeline"
	"transit-analytics/internal/store"
	"transit-analytics/pkg/utils"
)

// One-shot batch entry point: run a single analysis against a raw
// tracking export and write both report files.
func main() {
	input := flag.String("input", "data/rawdata.json", "path or URL of the raw tracking export")
	outDir := flag.String("out", "", "output directory (defaults to OUTPUT_DIR)")
	workers := flag.Int("workers", 0, "metric worker pool size (defaults to WORKERS)")
	label := flag.String("label", "", "optional run label")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "transit-pipeline").Logger()

	if err := store.InitDB(cfg.DBPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to open job store")
	}
	defer store.Close()

	if *outDir == "" {
		*outDir = cfg.OutputDir
	}
	if *workers <= 0 {
		*workers = cfg.Workers
	}

	spec := model.AnalysisJobSpec{
		Source:  *input,
		Label:   *label,
		Workers: *workers,
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, spec); err != nil {
		logger.Fatal().Err(err).Msg("failed to save job")
	}

	outputs := utils.NewOutputManager(*outDir)
	if err := pipeline.Run(context.Background(), logger, jobID, spec, outputs); err != nil {
		os.Exit(1)
	}
}
