package pipeline

import (
	"math"
	"sort"

	"transit-analytics/internal/model"
)

// UnknownServiceKey prefixes the per-service summary fields of shipments
// whose export carried no service type. The absent group aggregates like
// any other so the per-service counts always sum to the shipment total.
const UnknownServiceKey = "UNKNOWN"

// ComputeNetworkSummary rolls the enriched collection into the single-row
// network report: global transit statistics, facility statistics, delivery
// performance, and a per-service-type breakdown whose field names are
// determined by the service types observed in the data. Statistics skip
// absent values; a statistic with no inputs is itself absent.
func ComputeNetworkSummary(records []model.ShipmentRecord) model.NetworkSummary {
	var (
		transitHours     []float64
		facilityCounts   []int
		facilityFloats   []float64
		hoursPerFacility []float64
		odAttempts       []float64
		firstAttempts    int
	)
	for _, rec := range records {
		if rec.Metrics.TotalTransitHours != nil {
			transitHours = append(transitHours, *rec.Metrics.TotalTransitHours)
		}
		facilityCounts = append(facilityCounts, rec.Metrics.NumFacilitiesVisited)
		facilityFloats = append(facilityFloats, float64(rec.Metrics.NumFacilitiesVisited))
		if rec.Metrics.AvgHoursPerFacility != nil {
			hoursPerFacility = append(hoursPerFacility, *rec.Metrics.AvgHoursPerFacility)
		}
		odAttempts = append(odAttempts, float64(rec.Metrics.NumOutForDeliveryAttempts))
		if rec.Metrics.FirstAttemptDelivery {
			firstAttempts++
		}
	}

	var summary model.NetworkSummary
	total := float64(len(records))
	summary.Add("total_shipments_analyzed", &total)
	summary.Add("avg_transit_hours", mean(transitHours))
	summary.Add("median_transit_hours", median(transitHours))
	summary.Add("std_dev_transit_hours", sampleStdDev(transitHours))
	summary.Add("min_transit_hours", minimum(transitHours))
	summary.Add("max_transit_hours", maximum(transitHours))

	summary.Add("avg_facilities_per_shipment", mean(facilityFloats))
	summary.Add("median_facilities_per_shipment", median(facilityFloats))
	modeValue := float64(mode(facilityCounts))
	summary.Add("mode_facilities_per_shipment", &modeValue)
	summary.Add("avg_hours_per_facility", mean(hoursPerFacility))
	summary.Add("median_hours_per_facility", median(hoursPerFacility))

	if len(records) > 0 {
		pct := float64(firstAttempts) / total * 100
		summary.Add("pct_first_attempt_delivery", &pct)
	} else {
		summary.Add("pct_first_attempt_delivery", nil)
	}
	summary.Add("avg_out_for_delivery_attempts", mean(odAttempts))

	appendServiceBreakdown(&summary, records)
	return summary
}

// serviceGroup accumulates the per-service statistics.
type serviceGroup struct {
	transitHours []float64
	facilities   []float64
	count        int
}

func appendServiceBreakdown(summary *model.NetworkSummary, records []model.ShipmentRecord) {
	groups := make(map[string]*serviceGroup)
	for _, rec := range records {
		key := UnknownServiceKey
		if rec.ServiceType != nil {
			key = *rec.ServiceType
		}
		group, ok := groups[key]
		if !ok {
			group = &serviceGroup{}
			groups[key] = group
		}
		if rec.Metrics.TotalTransitHours != nil {
			group.transitHours = append(group.transitHours, *rec.Metrics.TotalTransitHours)
		}
		group.facilities = append(group.facilities, float64(rec.Metrics.NumFacilitiesVisited))
		group.count++
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		count := float64(group.count)
		summary.Add(key+"_avg_transit_hours", mean(group.transitHours))
		summary.Add(key+"_avg_facilities", mean(group.facilities))
		summary.Add(key+"_count", &count)
	}
}

// ------------------- descriptive statistics -------------------

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		m = sorted[mid]
	}
	return &m
}

// sampleStdDev is the n-1 denominator standard deviation; a single value
// has no spread to estimate and reports absent.
func sampleStdDev(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	m := *mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(len(values)-1))
	return &sd
}

func minimum(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return &m
}

func maximum(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m
}

// mode returns the most frequent value; ties resolve to the smallest
// value so the result is deterministic. An empty input modes to zero.
func mode(values []int) int {
	if len(values) == 0 {
		return 0
	}
	frequency := make(map[int]int)
	for _, v := range values {
		frequency[v]++
	}
	best, bestCount := 0, -1
	for v, count := range frequency {
		if count > bestCount || (count == bestCount && v < best) {
			best, bestCount = v, count
		}
	}
	return best
}
