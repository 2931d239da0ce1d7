package model

import "time"

// Event type codes used by carrier scan histories. Codes outside this set
// are retained in the event list but never counted.
const (
	EventPickup         = "PU"
	EventDelivery       = "DL"
	EventInTransit      = "IT"
	EventOutForDelivery = "OD"
)

// ShipmentRecord is one flattened shipment from the carrier export: the
// scalar identity/address/service fields, the weight normalized to
// kilograms, the raw authoritative pickup/delivery values from the
// shipment-level date registry, and the raw event list carried forward
// for metric derivation.
type ShipmentRecord struct {
	TrackingNumber       string  `json:"tracking_number"`
	ServiceType          *string `json:"service_type"`
	CarrierCode          string  `json:"carrier_code"`
	PackageWeightKg      float64 `json:"package_weight_kg"`
	PackagingType        string  `json:"packaging_type"`
	OriginCity           string  `json:"origin_city"`
	OriginState          string  `json:"origin_state"`
	OriginPincode        string  `json:"origin_pincode"`
	DestinationCity      string  `json:"destination_city"`
	DestinationState     string  `json:"destination_state"`
	DestinationPincode   string  `json:"destination_pincode"`
	DeliveryLocationType string  `json:"delivery_location_type"`

	// PickupRaw and DeliveryRaw hold the unparsed authoritative
	// timestamps (tagged epoch container or ISO string), nil when the
	// date registry had no ACTUAL_PICKUP / ACTUAL_DELIVERY entry.
	PickupRaw   interface{} `json:"pu_raw,omitempty"`
	DeliveryRaw interface{} `json:"dl_raw,omitempty"`

	Events []map[string]interface{} `json:"events,omitempty"`

	Metrics DerivedMetrics `json:"metrics"`
}

// DerivedMetrics holds everything the calculator derives from one
// shipment's event stream. Pointer fields are absent when the underlying
// instants could not be resolved; absence is data, not an error.
type DerivedMetrics struct {
	PickupDatetimeIST               *time.Time `json:"pickup_datetime_ist"`
	DeliveryDatetimeIST             *time.Time `json:"delivery_datetime_ist"`
	TotalTransitHours               *float64   `json:"total_transit_hours"`
	NumFacilitiesVisited            int        `json:"num_facilities_visited"`
	NumInTransitEvents              int        `json:"num_in_transit_events"`
	TimeInInterFacilityTransitHours float64    `json:"time_in_inter_facility_transit_hours"`
	NumOutForDeliveryAttempts       int        `json:"num_out_for_delivery_attempts"`
	FirstAttemptDelivery            bool       `json:"first_attempt_delivery"`
	TotalEventsCount                int        `json:"total_events_count"`
	AvgHoursPerFacility             *float64   `json:"avg_hours_per_facility"`
	IsExpressService                bool       `json:"is_express_service"`
}

// SummaryField is one named numeric value of the network summary. A nil
// value means the statistic had no inputs (all underlying values absent).
type SummaryField struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// NetworkSummary is the single-row network-wide report. The field set is
// data-dependent (three extra fields per observed service type), so it is
// an ordered list of named values rather than a fixed struct.
type NetworkSummary struct {
	Fields []SummaryField `json:"fields"`
}

// Add appends a named value, preserving insertion order.
func (s *NetworkSummary) Add(name string, value *float64) {
	s.Fields = append(s.Fields, SummaryField{Name: name, Value: value})
}

// Get looks up a field by name.
func (s NetworkSummary) Get(name string) (*float64, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
