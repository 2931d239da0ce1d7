package utils

import (
	"testing"
	"time"
)

func TestParseTimestampNumberLongString(t *testing.T) {
	got, ok := ParseTimestamp(map[string]interface{}{"$numberLong": "1584353640000"})
	if !ok {
		t.Fatalf("expected tagged epoch to parse")
	}
	want := time.UnixMilli(1584353640000).In(IST)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Location() != IST {
		t.Fatalf("expected IST location, got %v", got.Location())
	}
}

func TestParseTimestampNumberLongNumeric(t *testing.T) {
	got, ok := ParseTimestamp(map[string]interface{}{"$numberLong": float64(1584353640000)})
	if !ok {
		t.Fatalf("expected numeric epoch payload to parse")
	}
	if got.UnixMilli() != 1584353640000 {
		t.Fatalf("expected epoch 1584353640000, got %d", got.UnixMilli())
	}
}

func TestParseTimestampISOWithOffset(t *testing.T) {
	got, ok := ParseTimestamp("2024-01-01T00:00:00Z")
	if !ok {
		t.Fatalf("expected ISO string to parse")
	}
	if got.Hour() != 5 || got.Minute() != 30 {
		t.Fatalf("expected midnight UTC to map to 05:30 IST, got %v", got)
	}
}

func TestParseTimestampISOWithoutOffsetAssumesUTC(t *testing.T) {
	got, ok := ParseTimestamp("2024-01-01T12:00:00")
	if !ok {
		t.Fatalf("expected offset-less string to parse")
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).In(IST)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseTimestampFailures(t *testing.T) {
	cases := []interface{}{
		nil,
		"",
		"not a timestamp",
		map[string]interface{}{"unexpected": "1584353640000"},
		map[string]interface{}{"$numberLong": "twelve"},
		42.0,
		[]interface{}{"2024-01-01"},
	}
	for _, input := range cases {
		if _, ok := ParseTimestamp(input); ok {
			t.Fatalf("expected %v (%T) to fail parsing", input, input)
		}
	}
}
