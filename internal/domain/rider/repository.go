package rider

import (
	"context"
	"time"
)

// Repository defines the interface for rider data access. Upserts are
// keyed by rider ID and must be atomic under concurrent writers for the
// same rider: the last committed write wins and no row is duplicated.
type Repository interface {
	// GetByID retrieves a rider by ID
	GetByID(ctx context.Context, id int64) (*Rider, error)

	// GetByName retrieves a rider by name (login)
	GetByName(ctx context.Context, name string) (*Rider, error)

	// Exists reports whether a rider ID references a known rider
	Exists(ctx context.Context, id int64) (bool, error)

	// UpsertStatus writes the online flag for a rider, refreshing
	// last_updated even when the flag value did not change
	UpsertStatus(ctx context.Context, id int64, online bool) (*Status, error)

	// GetStatus retrieves the current status row, nil when none exists
	GetStatus(ctx context.Context, id int64) (*Status, error)

	// UpsertLocation overwrites the rider's current position
	UpsertLocation(ctx context.Context, id int64, lat, lon float64, at time.Time) (*Location, error)

	// LatestLocation retrieves the rider's current position
	LatestLocation(ctx context.Context, id int64) (*Location, error)

	// OnlineSnapshot lists every online rider joined with their latest
	// location, ordered by rider ID ascending
	OnlineSnapshot(ctx context.Context) ([]*OnlineRider, error)
}
