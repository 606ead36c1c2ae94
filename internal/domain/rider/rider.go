package rider

import "time"

// Rider represents a rider entity. IDs are assigned by the database and
// never change once created.
type Rider struct {
	ID           int64     `json:"rider_id"`
	Name         string    `json:"rider_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Status is the persisted online/offline flag for a rider. At most one
// row exists per rider; it is created lazily on the first status write
// and mutated in place afterwards, never deleted.
type Status struct {
	RiderID     int64     `json:"rider_id"`
	IsOnline    bool      `json:"is_online"`
	LastUpdated time.Time `json:"last_updated"`
}

// Location is the latest coordinate report for a rider. Each new report
// overwrites the previous one; there is no trajectory history.
type Location struct {
	RiderID      int64     `json:"rider_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	LocationTime time.Time `json:"location_time"`
}

// OnlineRider is one row of the online snapshot: presence joined with the
// latest location. Location fields are nil when the rider has never
// reported a position.
type OnlineRider struct {
	RiderID          int64      `json:"rider_id"`
	RiderName        string     `json:"rider_name"`
	IsOnline         bool       `json:"is_online"`
	LastUpdated      time.Time  `json:"last_updated"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	LastLocationTime *time.Time `json:"last_location_time"`
}

// ValidCoordinates reports whether lat/lon form a real GPS position.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
