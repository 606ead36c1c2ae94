package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gocomet/rider-tracker/internal/domain/rider"
)

// RiderStore is the PostgreSQL implementation of rider.Repository.
// Status and location writes use INSERT ... ON CONFLICT keyed on
// rider_id so concurrent writers for the same rider serialize inside
// the database and the last committed write wins.
type RiderStore struct {
	db *sql.DB
}

// NewRiderStore creates a RiderStore
func NewRiderStore(db *sql.DB) *RiderStore {
	return &RiderStore{db: db}
}

// GetByID retrieves a rider by ID
func (s *RiderStore) GetByID(ctx context.Context, id int64) (*rider.Rider, error) {
	var r rider.Rider
	err := s.db.QueryRowContext(ctx, `
		SELECT rider_id, rider_name, password, created_at
		FROM riders
		WHERE rider_id = $1
	`, id).Scan(&r.ID, &r.Name, &r.PasswordHash, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByName retrieves a rider by name
func (s *RiderStore) GetByName(ctx context.Context, name string) (*rider.Rider, error) {
	var r rider.Rider
	err := s.db.QueryRowContext(ctx, `
		SELECT rider_id, rider_name, password, created_at
		FROM riders
		WHERE rider_name = $1
	`, name).Scan(&r.ID, &r.Name, &r.PasswordHash, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Exists reports whether a rider ID is known
func (s *RiderStore) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM riders WHERE rider_id = $1)
	`, id).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

// UpsertStatus writes the online flag, refreshing last_updated even when
// the value is unchanged
func (s *RiderStore) UpsertStatus(ctx context.Context, id int64, online bool) (*rider.Status, error) {
	var st rider.Status
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rider_status (rider_id, is_online, last_updated)
		VALUES ($1, $2, NOW())
		ON CONFLICT (rider_id)
		DO UPDATE SET
			is_online = EXCLUDED.is_online,
			last_updated = NOW()
		RETURNING rider_id, is_online, last_updated
	`, id, online).Scan(&st.RiderID, &st.IsOnline, &st.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStatus retrieves the current status row, nil when none exists
func (s *RiderStore) GetStatus(ctx context.Context, id int64) (*rider.Status, error) {
	var st rider.Status
	err := s.db.QueryRowContext(ctx, `
		SELECT rider_id, is_online, last_updated
		FROM rider_status
		WHERE rider_id = $1
	`, id).Scan(&st.RiderID, &st.IsOnline, &st.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// UpsertLocation overwrites the rider's current position. One row per
// rider; this is latest-position-wins, not an append-only log.
func (s *RiderStore) UpsertLocation(ctx context.Context, id int64, lat, lon float64, at time.Time) (*rider.Location, error) {
	var loc rider.Location
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rider_location (rider_id, latitude, longitude, location_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (rider_id)
		DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			location_time = EXCLUDED.location_time
		RETURNING rider_id, latitude, longitude, location_time
	`, id, lat, lon, at).Scan(&loc.RiderID, &loc.Latitude, &loc.Longitude, &loc.LocationTime)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// LatestLocation retrieves the rider's current position
func (s *RiderStore) LatestLocation(ctx context.Context, id int64) (*rider.Location, error) {
	var loc rider.Location
	err := s.db.QueryRowContext(ctx, `
		SELECT rider_id, latitude, longitude, location_time
		FROM rider_location
		WHERE rider_id = $1
		ORDER BY location_time DESC
		LIMIT 1
	`, id).Scan(&loc.RiderID, &loc.Latitude, &loc.Longitude, &loc.LocationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rider.ErrNoLocation
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// OnlineSnapshot lists every online rider left-joined with their latest
// location, ordered by rider_id. A single query keeps each row
// internally consistent under read-committed isolation.
func (s *RiderStore) OnlineSnapshot(ctx context.Context) ([]*rider.OnlineRider, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			r.rider_id,
			r.rider_name,
			COALESCE(rs.is_online, FALSE) AS is_online,
			rs.last_updated,
			rl.latitude,
			rl.longitude,
			rl.location_time AS last_location_time
		FROM riders r
		JOIN rider_status rs ON r.rider_id = rs.rider_id
		LEFT JOIN LATERAL (
			SELECT latitude, longitude, location_time
			FROM rider_location
			WHERE rider_id = r.rider_id
			ORDER BY location_time DESC
			LIMIT 1
		) rl ON TRUE
		WHERE rs.is_online = TRUE
		ORDER BY r.rider_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*rider.OnlineRider
	for rows.Next() {
		var or rider.OnlineRider
		if err := rows.Scan(&or.RiderID, &or.RiderName, &or.IsOnline, &or.LastUpdated,
			&or.Latitude, &or.Longitude, &or.LastLocationTime); err != nil {
			return nil, err
		}
		riders = append(riders, &or)
	}
	return riders, rows.Err()
}
