package dto

import (
	"encoding/json"
	"time"

	"github.com/gocomet/rider-tracker/internal/service/tracking"
)

// OnlineFlag accepts the boolean, 0/1 integer, and string spellings of
// the online flag that clients send, normalized through a single
// coercion rule.
type OnlineFlag struct {
	Value bool
	Set   bool
}

// UnmarshalJSON decodes any JSON scalar into a canonical boolean
func (f *OnlineFlag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Value = tracking.CoerceOnline(raw)
	f.Set = raw != nil
	return nil
}

// LoginRequest authenticates a rider
type LoginRequest struct {
	RiderName string `json:"rider_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and current status
type LoginResponse struct {
	Success   bool   `json:"success"`
	RiderID   int64  `json:"rider_id"`
	RiderName string `json:"rider_name"`
	IsOnline  bool   `json:"is_online"`
	Token     string `json:"token"`
	Message   string `json:"message"`
}

// UpdateStatusRequest reports a rider going online or offline
type UpdateStatusRequest struct {
	RiderID  *int64     `json:"rider_id" binding:"required"`
	IsOnline OnlineFlag `json:"is_online"`
}

// UpdateLocationRequest reports a GPS position. Timestamp is optional;
// unparseable values fall back to server time.
type UpdateLocationRequest struct {
	RiderID   *int64   `json:"rider_id" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Timestamp string   `json:"timestamp"`
}

// WalletAmountRequest credits or debits a wallet
type WalletAmountRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

// LocationResponse is the latest position of one rider
type LocationResponse struct {
	Success      bool      `json:"success"`
	RiderID      int64     `json:"rider_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	LocationTime time.Time `json:"location_time"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
