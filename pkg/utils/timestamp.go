package utils

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// IST is the fixed target timezone for every normalized instant in the
// system. A fixed zone avoids a runtime dependency on the tz database.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Layouts tried for string timestamps, most specific first. Layouts
// without an offset are interpreted as UTC.
var timestampLayouts = []struct {
	layout    string
	hasOffset bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
}

// ParseTimestamp normalizes the two timestamp encodings found in carrier
// exports into an IST instant:
//
//   - a tagged container {"$numberLong": "<epoch ms>"} with a string or
//     numeric payload, interpreted as milliseconds since the Unix epoch
//   - an ISO-8601 (or similar) string, assumed UTC when it carries no offset
//
// Anything unparseable reports ok=false; parse failures never surface as
// errors because a missing instant is valid data downstream.
func ParseTimestamp(value interface{}) (time.Time, bool) {
	switch ts := value.(type) {
	case nil:
		return time.Time{}, false
	case map[string]interface{}:
		ms, ok := epochMillis(ts["$numberLong"])
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).In(IST), true
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return time.Time{}, false
		}
		for _, candidate := range timestampLayouts {
			var (
				parsed time.Time
				err    error
			)
			if candidate.hasOffset {
				parsed, err = time.Parse(candidate.layout, s)
			} else {
				parsed, err = time.ParseInLocation(candidate.layout, s, time.UTC)
			}
			if err == nil {
				return parsed.In(IST), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func epochMillis(raw interface{}) (int64, bool) {
	switch n := raw.(type) {
	case string:
		ms, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return ms, err == nil
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		ms, err := n.Int64()
		return ms, err == nil
	default:
		return 0, false
	}
}
