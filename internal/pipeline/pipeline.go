package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"transit-analytics/internal/model"
	"transit-analytics/internal/store"
	"transit-analytics/pkg/utils"
)

// DefaultWorkers sizes the metric-calculation pool when the job spec
// leaves it unset.
const DefaultWorkers = 4

// Run executes one transit-analysis job end to end: ingest the raw
// export, flatten to per-shipment records, derive per-shipment metrics,
// aggregate the network summary, and write both report files. One-shot
// batch: an error marks the job failed and nothing is retried.
func Run(ctx context.Context, logger zerolog.Logger, jobID string, spec model.AnalysisJobSpec, outputs *utils.OutputManager) (err error) {
	start := time.Now()
	logger = logger.With().Str("job_id", jobID).Logger()
	logger.Info().Str("source", spec.Source).Msg("starting analysis")

	store.UpdateJobStatus(jobID, "running")
	defer func() {
		if err != nil {
			store.UpdateJobStatus(jobID, "failed")
			store.SaveJobError(jobID, err)
			logger.Error().Err(err).Msg("analysis failed")
		}
	}()

	// --- INGEST ---
	store.UpdateJobStatus(jobID, "ingesting")
	roots, err := LoadRootEntries(ctx, spec.Source)
	if err != nil {
		return err
	}
	logger.Info().Int("root_entries", len(roots)).Msg("export ingested")

	// --- FLATTEN ---
	store.UpdateJobStatus(jobID, "flattening")
	records := Flatten(roots)
	logger.Info().Int("shipments", len(records)).Msg("shipments flattened")

	// --- METRICS ---
	store.UpdateJobStatus(jobID, "calculating")
	workers := spec.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	EnrichRecords(records, workers)
	logger.Info().Int("workers", workers).Msg("per-shipment metrics derived")

	// --- AGGREGATE ---
	store.UpdateJobStatus(jobID, "aggregating")
	summary := ComputeNetworkSummary(records)
	logger.Info().Int("summary_fields", len(summary.Fields)).Msg("network summary computed")

	// --- EXPORT ---
	store.UpdateJobStatus(jobID, "exporting")
	if err := exportReports(jobID, records, summary, outputs, logger); err != nil {
		return err
	}

	store.UpdateJobStatus(jobID, "completed")
	logger.Info().Dur("duration", time.Since(start)).Msg("analysis completed")
	return nil
}

func exportReports(jobID string, records []model.ShipmentRecord, summary model.NetworkSummary, outputs *utils.OutputManager, logger zerolog.Logger) error {
	detailPath, err := outputs.ReportFilePath(jobID, DetailReportFile)
	if err != nil {
		return err
	}
	rowCount, err := WriteDetailReport(detailPath, records)
	if err != nil {
		return fmt.Errorf("detail report: %w", err)
	}
	if err := store.SaveJobReport(jobID, model.ExportResult{
		Report:      "detailed",
		Path:        detailPath,
		RecordCount: rowCount,
		Success:     true,
		ExportedAt:  time.Now().UTC(),
	}); err != nil {
		return err
	}
	logger.Info().Str("path", detailPath).Int("rows", rowCount).Msg("detail report written")

	summaryPath, err := outputs.ReportFilePath(jobID, SummaryReportFile)
	if err != nil {
		return err
	}
	if err := WriteSummaryReport(summaryPath, summary); err != nil {
		return fmt.Errorf("summary report: %w", err)
	}
	if err := store.SaveJobReport(jobID, model.ExportResult{
		Report:      "summary",
		Path:        summaryPath,
		RecordCount: 1,
		Success:     true,
		ExportedAt:  time.Now().UTC(),
	}); err != nil {
		return err
	}
	logger.Info().Str("path", summaryPath).Msg("summary report written")
	return nil
}
