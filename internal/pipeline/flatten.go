package pipeline

import (
	"fmt"
	"strings"

	"transit-analytics/internal/model"
	"transit-analytics/pkg/utils"
)

const poundsToKg = 0.453592

// Date registry type tags marking authoritative pickup/delivery times.
const (
	actualPickupTag   = "ACTUAL_PICKUP"
	actualDeliveryTag = "ACTUAL_DELIVERY"
)

// Flatten walks the root → trackDetails[] structure of the carrier export
// and produces exactly one ShipmentRecord per shipment entry, in input
// traversal order. Missing or malformed fields resolve to their defaults;
// nothing in here fails a run.
func Flatten(roots []map[string]interface{}) []model.ShipmentRecord {
	var records []model.ShipmentRecord
	for _, root := range roots {
		details, _ := utils.SafeGet(root, "trackDetails").([]interface{})
		for _, entry := range details {
			shipment, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			records = append(records, flattenShipment(shipment))
		}
	}
	return records
}

func flattenShipment(shipment map[string]interface{}) model.ShipmentRecord {
	record := model.ShipmentRecord{
		TrackingNumber:       utils.SafeString(shipment, "trackingNumber"),
		ServiceType:          optionalString(utils.SafeGet(shipment, "service", "type")),
		CarrierCode:          utils.SafeString(shipment, "carrierCode"),
		PackagingType:        utils.SafeString(shipment, "packaging", "type"),
		OriginCity:           utils.SafeString(shipment, "shipperAddress", "city"),
		OriginState:          utils.SafeString(shipment, "shipperAddress", "stateOrProvinceCode"),
		OriginPincode:        utils.SafeString(shipment, "shipperAddress", "postalCode"),
		DestinationCity:      utils.SafeString(shipment, "destinationAddress", "city"),
		DestinationState:     utils.SafeString(shipment, "destinationAddress", "stateOrProvinceCode"),
		DestinationPincode:   utils.SafeString(shipment, "destinationAddress", "postalCode"),
		DeliveryLocationType: utils.SafeString(shipment, "deliveryLocationType"),
	}

	record.PickupRaw = findDatedEntry(shipment, actualPickupTag)
	record.DeliveryRaw = findDatedEntry(shipment, actualDeliveryTag)
	record.PackageWeightKg = normalizeWeight(shipment)
	record.Events = collectEvents(shipment)

	return record
}

// findDatedEntry returns the dateOrTimestamp of the first datesOrTimes
// entry carrying the wanted type tag, or nil when none exists.
func findDatedEntry(shipment map[string]interface{}, typeTag string) interface{} {
	dates, _ := utils.SafeGet(shipment, "datesOrTimes").([]interface{})
	for _, entry := range dates {
		dated, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if tag, _ := dated["type"].(string); tag == typeTag {
			return dated["dateOrTimestamp"]
		}
	}
	return nil
}

// normalizeWeight reads packageWeight.{value,units} and converts pounds
// to kilograms. An absent or unparseable value is weight zero.
func normalizeWeight(shipment map[string]interface{}) float64 {
	value, _ := utils.ToFloat(utils.SafeGet(shipment, "packageWeight", "value"))
	unit := utils.SafeString(shipment, "packageWeight", "units")
	if strings.EqualFold(unit, "LB") {
		return value * poundsToKg
	}
	return value
}

func collectEvents(shipment map[string]interface{}) []map[string]interface{} {
	raw, _ := utils.SafeGet(shipment, "events").([]interface{})
	events := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		if event, ok := entry.(map[string]interface{}); ok {
			events = append(events, event)
		}
	}
	return events
}

func optionalString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprintf("%v", value)
	}
	return &s
}
