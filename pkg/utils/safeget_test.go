package utils

import "testing"

func nestedFixture() map[string]interface{} {
	return map[string]interface{}{
		"service": map[string]interface{}{
			"type": "PRIORITY_OVERNIGHT",
		},
		"packageWeight": map[string]interface{}{
			"value": 10.5,
			"units": "LB",
		},
		"deliveryLocationType": "RESIDENCE",
		"scalar":               42,
	}
}

func TestSafeGetNestedHit(t *testing.T) {
	got := SafeGet(nestedFixture(), "service", "type")
	if got != "PRIORITY_OVERNIGHT" {
		t.Fatalf("expected PRIORITY_OVERNIGHT, got %v", got)
	}
}

func TestSafeGetMissingKey(t *testing.T) {
	if got := SafeGet(nestedFixture(), "service", "category"); got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}

func TestSafeGetThroughNonMap(t *testing.T) {
	if got := SafeGet(nestedFixture(), "scalar", "deeper"); got != nil {
		t.Fatalf("expected nil when descending through a scalar, got %v", got)
	}
}

func TestSafeGetDefault(t *testing.T) {
	got := SafeGetDefault(nestedFixture(), "KG", "packageWeight", "missing")
	if got != "KG" {
		t.Fatalf("expected fallback KG, got %v", got)
	}
}

func TestSafeGetNilRoot(t *testing.T) {
	if got := SafeGet(nil, "anything"); got != nil {
		t.Fatalf("expected nil for nil root, got %v", got)
	}
}

func TestSafeStringStringifiesScalars(t *testing.T) {
	if got := SafeString(nestedFixture(), "scalar"); got != "42" {
		t.Fatalf("expected \"42\", got %q", got)
	}
	if got := SafeString(nestedFixture(), "missing"); got != "" {
		t.Fatalf("expected empty string for missing path, got %q", got)
	}
}

func TestToFloat(t *testing.T) {
	if v, ok := ToFloat("12.5"); !ok || v != 12.5 {
		t.Fatalf("expected 12.5 from quoted number, got %v (%v)", v, ok)
	}
	if v, ok := ToFloat(7.0); !ok || v != 7.0 {
		t.Fatalf("expected 7.0, got %v (%v)", v, ok)
	}
	if _, ok := ToFloat(map[string]interface{}{}); ok {
		t.Fatalf("expected map to fail conversion")
	}
}
