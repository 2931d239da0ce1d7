package utils

import "fmt"

// SafeGet descends a chain of keys through nested JSON-style maps.
// It returns nil as soon as a key is missing or the current value is
// not a map, so callers never have to guard intermediate lookups.
func SafeGet(root interface{}, keys ...string) interface{} {
	return SafeGetDefault(root, nil, keys...)
}

// SafeGetDefault is SafeGet with a caller-supplied fallback value.
func SafeGetDefault(root, fallback interface{}, keys ...string) interface{} {
	current := root
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return fallback
		}
		value, ok := m[key]
		if !ok {
			return fallback
		}
		current = value
	}
	return current
}

// SafeString resolves a nested path to a string. Non-string scalars are
// stringified; a broken path or nil value becomes the empty string.
func SafeString(root interface{}, keys ...string) string {
	value := SafeGet(root, keys...)
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
