package pipeline

import (
	"sort"
	"strings"
	"sync"
	"time"

	"transit-analytics/internal/model"
	"transit-analytics/pkg/utils"
)

// normalizedEvent is one scan event after timestamp normalization.
type normalizedEvent struct {
	when      time.Time
	timed     bool
	eventType string
	location  string
	city      string
}

// CalculateMetrics derives the per-shipment metrics from one record's
// event stream. It is a pure function of the record: no cross-record
// state, identical output on every call.
//
// A shipment with no events is a documented special case, not an error:
// transit hours stay absent, every count stays at its zero value.
func CalculateMetrics(record model.ShipmentRecord) model.DerivedMetrics {
	metrics := model.DerivedMetrics{
		IsExpressService: isExpressService(record.ServiceType),
	}
	if len(record.Events) == 0 {
		return metrics
	}

	events := normalizeEvents(record.Events)

	// Facility visits: FACILITY-tagged events deduplicated by the
	// (city, location text) pair, so repeated scans at the same named
	// facility count once.
	facilityEvents := make([]normalizedEvent, 0)
	facilityKeys := make(map[string]struct{})
	for _, ev := range events {
		if ev.location == "" || !strings.Contains(strings.ToUpper(ev.location), "FACILITY") {
			continue
		}
		facilityEvents = append(facilityEvents, ev)
		facilityKeys[ev.city+"_"+ev.location] = struct{}{}
	}
	metrics.NumFacilitiesVisited = len(facilityKeys)

	// Pickup/delivery resolution: authoritative registry first, then
	// earliest PU / latest DL event as fallback.
	pickup, pickupOK := utils.ParseTimestamp(record.PickupRaw)
	if !pickupOK {
		pickup, pickupOK = earliestOfType(events, model.EventPickup)
	}
	delivery, deliveryOK := utils.ParseTimestamp(record.DeliveryRaw)
	if !deliveryOK {
		delivery, deliveryOK = latestOfType(events, model.EventDelivery)
	}
	if pickupOK {
		metrics.PickupDatetimeIST = &pickup
	}
	if deliveryOK {
		metrics.DeliveryDatetimeIST = &delivery
	}
	if pickupOK && deliveryOK {
		// Signed on purpose: malformed data with pickup after delivery
		// must pass through as a negative duration, not be clamped.
		hours := delivery.Sub(pickup).Hours()
		metrics.TotalTransitHours = &hours
	}

	metrics.TimeInInterFacilityTransitHours = interFacilitySpan(facilityEvents)

	for _, ev := range events {
		switch ev.eventType {
		case model.EventInTransit:
			metrics.NumInTransitEvents++
		case model.EventOutForDelivery:
			metrics.NumOutForDeliveryAttempts++
		}
	}
	metrics.FirstAttemptDelivery = metrics.NumOutForDeliveryAttempts == 1
	metrics.TotalEventsCount = len(events)

	if metrics.TotalTransitHours != nil && metrics.NumFacilitiesVisited > 0 {
		perFacility := *metrics.TotalTransitHours / float64(metrics.NumFacilitiesVisited)
		metrics.AvgHoursPerFacility = &perFacility
	}

	return metrics
}

// normalizeEvents parses every event timestamp, sorts ascending (events
// without a parseable timestamp go last, original order otherwise kept),
// and collapses exact (timestamp, eventType) duplicates keeping the first
// occurrence.
func normalizeEvents(raw []map[string]interface{}) []normalizedEvent {
	events := make([]normalizedEvent, 0, len(raw))
	for _, entry := range raw {
		when, timed := utils.ParseTimestamp(entry["timestamp"])
		location, _ := entry["arrivalLocation"].(string)
		events = append(events, normalizedEvent{
			when:      when,
			timed:     timed,
			eventType: utils.SafeString(entry, "eventType"),
			location:  location,
			city:      utils.SafeString(entry, "address", "city"),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].timed != events[j].timed {
			return events[i].timed
		}
		if !events[i].timed {
			return false
		}
		return events[i].when.Before(events[j].when)
	})

	seen := make(map[string]struct{}, len(events))
	deduped := events[:0]
	for _, ev := range events {
		key := ev.eventType
		if ev.timed {
			key = ev.when.UTC().Format(time.RFC3339Nano) + "|" + ev.eventType
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, ev)
	}
	return deduped
}

func earliestOfType(events []normalizedEvent, eventType string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, ev := range events {
		if !ev.timed || ev.eventType != eventType {
			continue
		}
		if !found || ev.when.Before(best) {
			best = ev.when
			found = true
		}
	}
	return best, found
}

func latestOfType(events []normalizedEvent, eventType string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, ev := range events {
		if !ev.timed || ev.eventType != eventType {
			continue
		}
		if !found || ev.when.After(best) {
			best = ev.when
			found = true
		}
	}
	return best, found
}

// interFacilitySpan is the elapsed hours from the first to the last
// facility-visit event. Fewer than two timed facility visits span zero.
func interFacilitySpan(facilityEvents []normalizedEvent) float64 {
	if len(facilityEvents) < 2 {
		return 0.0
	}
	var first, last time.Time
	timed := 0
	for _, ev := range facilityEvents {
		if !ev.timed {
			continue
		}
		if timed == 0 || ev.when.Before(first) {
			first = ev.when
		}
		if timed == 0 || ev.when.After(last) {
			last = ev.when
		}
		timed++
	}
	if timed < 2 {
		return 0.0
	}
	return last.Sub(first).Hours()
}

func isExpressService(serviceType *string) bool {
	if serviceType == nil {
		return false
	}
	upper := strings.ToUpper(*serviceType)
	return strings.Contains(upper, "EXPRESS") || strings.Contains(upper, "PRIORITY")
}

// EnrichRecords runs the calculator across the collection with a pool of
// workers. Each shipment is independent, so the work is distributed by
// index and the results land back in input order; the detail report and
// every positional join depend on that order surviving.
func EnrichRecords(records []model.ShipmentRecord, workerCount int) {
	if workerCount <= 1 || len(records) < 2 {
		for i := range records {
			records[i].Metrics = CalculateMetrics(records[i])
		}
		return
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				records[i].Metrics = CalculateMetrics(records[i])
			}
		}()
	}
	for i := range records {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}
