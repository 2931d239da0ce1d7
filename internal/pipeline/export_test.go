package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"transit-analytics/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return rows
}

func TestWriteDetailReportColumnOrder(t *testing.T) {
	rec := recordWithEvents(
		event("2024-01-01T00:00:00Z", "PU", "", ""),
		event("2024-01-02T00:00:00Z", "DL", "", ""),
	)
	rec.TrackingNumber = "SHIP-1"
	rec.ServiceType = strPtr("EXPRESS")
	rec.Metrics = CalculateMetrics(rec)

	path := filepath.Join(t.TempDir(), "reports", DetailReportFile)
	count, err := WriteDetailReport(path, []model.ShipmentRecord{rec})
	if err != nil {
		t.Fatalf("write detail report: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row written, got %d", count)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	for i, want := range DetailColumns {
		if rows[0][i] != want {
			t.Fatalf("column %d: expected %q, got %q", i, want, rows[0][i])
		}
	}

	row := rows[1]
	if row[0] != "SHIP-1" || row[1] != "EXPRESS" {
		t.Fatalf("identity columns mismatch: %v", row[:2])
	}
	if row[13] != "24" {
		t.Fatalf("expected total_transit_hours 24, got %q", row[13])
	}
	if row[18] != "true" {
		t.Fatalf("expected is_express_service true, got %q", row[18])
	}
	if row[11] == "" || row[12] == "" {
		t.Fatalf("expected pickup/delivery instants rendered, got %q / %q", row[11], row[12])
	}
}

func TestWriteDetailReportAbsentValuesRenderEmpty(t *testing.T) {
	rec := model.ShipmentRecord{TrackingNumber: "EMPTY"}
	rec.Metrics = CalculateMetrics(rec)

	path := filepath.Join(t.TempDir(), DetailReportFile)
	if _, err := WriteDetailReport(path, []model.ShipmentRecord{rec}); err != nil {
		t.Fatalf("write detail report: %v", err)
	}

	rows := readCSV(t, path)
	row := rows[1]
	if row[11] != "" || row[12] != "" || row[13] != "" || row[17] != "" {
		t.Fatalf("expected absent instants and hours to render empty, got %v", row)
	}
}

func TestWriteSummaryReport(t *testing.T) {
	records := []model.ShipmentRecord{
		summaryRecord(strPtr("EXPRESS"), floatPtr(10), 1, true, 1),
		summaryRecord(nil, nil, 0, false, 0),
	}
	summary := ComputeNetworkSummary(records)

	path := filepath.Join(t.TempDir(), SummaryReportFile)
	if err := WriteSummaryReport(path, summary); err != nil {
		t.Fatalf("write summary report: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if len(rows[0]) != len(summary.Fields) || len(rows[1]) != len(summary.Fields) {
		t.Fatalf("expected %d columns, got %d/%d", len(summary.Fields), len(rows[0]), len(rows[1]))
	}
	if rows[0][0] != "total_shipments_analyzed" || rows[1][0] != "2" {
		t.Fatalf("expected leading total column, got %q=%q", rows[0][0], rows[1][0])
	}

	// Absent statistics stay blank rather than rendering a sentinel.
	for i, name := range rows[0] {
		if name == "std_dev_transit_hours" && rows[1][i] != "" {
			t.Fatalf("expected absent stddev to render empty, got %q", rows[1][i])
		}
	}
}
