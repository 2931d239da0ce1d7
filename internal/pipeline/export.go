package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"transit-analytics/internal/model"
)

// Report file names, matching the reference export layout.
const (
	DetailReportFile  = "transit_performance_detailed.csv"
	SummaryReportFile = "transit_performance_summary.csv"
)

// istTimestampLayout renders an IST instant with its +05:30 offset.
const istTimestampLayout = "2006-01-02 15:04:05-07:00"

// DetailColumns is the contractual column order of the detail report.
var DetailColumns = []string{
	"tracking_number", "service_type", "carrier_code", "package_weight_kg", "packaging_type",
	"origin_city", "origin_state", "origin_pincode", "destination_city", "destination_state",
	"destination_pincode", "pickup_datetime_ist", "delivery_datetime_ist", "total_transit_hours",
	"num_facilities_visited", "num_in_transit_events", "time_in_inter_facility_transit_hours",
	"avg_hours_per_facility", "is_express_service", "delivery_location_type",
	"num_out_for_delivery_attempts", "first_attempt_delivery", "total_events_count",
}

// WriteDetailReport writes the per-shipment detail table, one row per
// record in input order. Returns the number of data rows written.
func WriteDetailReport(path string, records []model.ShipmentRecord) (int, error) {
	writer, file, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	defer writer.Flush()

	if err := writer.Write(DetailColumns); err != nil {
		return 0, fmt.Errorf("failed to write detail header: %w", err)
	}

	for i, rec := range records {
		if err := writer.Write(detailRow(rec)); err != nil {
			return i, fmt.Errorf("failed to write detail row %d: %w", i, err)
		}
	}
	return len(records), nil
}

func detailRow(rec model.ShipmentRecord) []string {
	m := rec.Metrics
	return []string{
		rec.TrackingNumber,
		optionalStringValue(rec.ServiceType),
		rec.CarrierCode,
		formatFloat(rec.PackageWeightKg),
		rec.PackagingType,
		rec.OriginCity,
		rec.OriginState,
		rec.OriginPincode,
		rec.DestinationCity,
		rec.DestinationState,
		rec.DestinationPincode,
		formatTimePtr(m.PickupDatetimeIST),
		formatTimePtr(m.DeliveryDatetimeIST),
		formatFloatPtr(m.TotalTransitHours),
		strconv.Itoa(m.NumFacilitiesVisited),
		strconv.Itoa(m.NumInTransitEvents),
		formatFloat(m.TimeInInterFacilityTransitHours),
		formatFloatPtr(m.AvgHoursPerFacility),
		strconv.FormatBool(m.IsExpressService),
		rec.DeliveryLocationType,
		strconv.Itoa(m.NumOutForDeliveryAttempts),
		strconv.FormatBool(m.FirstAttemptDelivery),
		strconv.Itoa(m.TotalEventsCount),
	}
}

// WriteSummaryReport writes the single-row network summary. The header is
// data-dependent: the fixed statistics first, then the per-service fields
// in the order the aggregator emitted them.
func WriteSummaryReport(path string, summary model.NetworkSummary) error {
	writer, file, err := openCSV(path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	header := make([]string, 0, len(summary.Fields))
	row := make([]string, 0, len(summary.Fields))
	for _, field := range summary.Fields {
		header = append(header, field.Name)
		row = append(row, formatFloatPtr(field.Value))
	}

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write summary row: %w", err)
	}
	return nil
}

func openCSV(path string) (*csv.Writer, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return csv.NewWriter(file), file, nil
}

func optionalStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(istTimestampLayout)
}
