package tracking

import "time"

// Event names published on the broadcast channel. Every subscriber
// receives every event in publish order, best-effort.
const (
	EventStatusChanged   = "rider_status_changed"
	EventLocationUpdated = "rider_location_updated"
)

// StatusChangedPayload announces an online/offline transition
type StatusChangedPayload struct {
	RiderID   int64     `json:"rider_id"`
	IsOnline  bool      `json:"is_online"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationUpdatedPayload announces a new latest position
type LocationUpdatedPayload struct {
	RiderID   int64     `json:"rider_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the broadcast channel the reconciler announces committed
// state changes on. Publish must only enqueue; it never blocks on slow
// subscribers.
type Publisher interface {
	Publish(event string, data interface{})
}

// NopPublisher discards events. Useful in tests and tooling.
type NopPublisher struct{}

// Publish discards the event
func (NopPublisher) Publish(string, interface{}) {}
