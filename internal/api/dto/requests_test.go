package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnlineFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bool
		wantSet bool
	}{
		{"boolean true", `{"rider_id":7,"is_online":true}`, true, true},
		{"boolean false", `{"rider_id":7,"is_online":false}`, false, true},
		{"integer one", `{"rider_id":7,"is_online":1}`, true, true},
		{"integer zero", `{"rider_id":7,"is_online":0}`, false, true},
		{"string true", `{"rider_id":7,"is_online":"true"}`, true, true},
		{"string yes", `{"rider_id":7,"is_online":"YES"}`, true, true},
		{"string garbage", `{"rider_id":7,"is_online":"banana"}`, false, true},
		{"null", `{"rider_id":7,"is_online":null}`, false, false},
		{"absent", `{"rider_id":7}`, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateStatusRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.IsOnline.Value)
			assert.Equal(t, tt.wantSet, req.IsOnline.Set)
		})
	}
}
