package tracking

import "strings"

// CoerceOnline normalizes the heterogeneous wire representations of the
// online flag into a boolean. Mobile clients have been observed sending
// booleans, 0/1 integers, and strings for the same field.
//
// Rules: number 1 means true, any other number false; strings "true",
// "1" and "yes" (case-insensitive) mean true, any other string false;
// booleans pass through; nil is false; arrays and objects coerce on
// emptiness.
func CoerceOnline(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		// JSON numbers decode as float64
		return val == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case nil:
		return false
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return false
	}
}
