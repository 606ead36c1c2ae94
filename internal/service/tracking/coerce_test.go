package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceOnline(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"int one", 1, true},
		{"int zero", 0, false},
		{"int other", 7, false},
		{"json number one", float64(1), true},
		{"json number zero", float64(0), false},
		{"json number other", float64(2), false},
		{"string true", "true", true},
		{"string TRUE", "TRUE", true},
		{"string one", "1", true},
		{"string yes", "yes", true},
		{"string Yes with spaces", "  Yes ", true},
		{"string false", "false", false},
		{"string zero", "0", false},
		{"string garbage", "online", false},
		{"string empty", "", false},
		{"nil", nil, false},
		{"empty array", []interface{}{}, false},
		{"non-empty array", []interface{}{1}, true},
		{"empty object", map[string]interface{}{}, false},
		{"non-empty object", map[string]interface{}{"a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceOnline(tt.input))
		})
	}
}
