package tracking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gocomet/rider-tracker/internal/domain/rider"
	"github.com/gocomet/rider-tracker/internal/observability"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

const geoIndexKey = "riders:locations"

// Service is the single authority for mutating rider status and location
// and for deciding what goes out on the broadcast channel. All writes go
// through the repository's conflict-resolving upserts, so concurrent
// updates for the same rider serialize in commit order.
type Service struct {
	repo      rider.Repository
	publisher Publisher
	redis     *redis.Client
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a tracking service. redisClient may be nil; the geo
// index mirror is best-effort and skipped without it.
func NewService(repo rider.Repository, publisher Publisher, redisClient *redis.Client, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		redis:     redisClient,
		logger:    log,
		now:       time.Now,
	}
}

// SetStatus upserts the rider's online flag and broadcasts the new state.
// The broadcast is unconditional: a rider re-reporting an unchanged flag
// still produces a status_changed event, which keeps late-joining
// dashboards current.
func (s *Service) SetStatus(ctx context.Context, riderID int64, online bool) (*rider.Status, error) {
	exists, err := s.repo.Exists(ctx, riderID)
	if err != nil {
		observability.StatusUpdatesTotal.WithLabelValues("unavailable").Inc()
		return nil, apperrors.Unavailable("Database connection failed", err)
	}
	if !exists {
		observability.StatusUpdatesTotal.WithLabelValues("not_found").Inc()
		return nil, apperrors.ErrRiderNotFound
	}

	st, err := s.repo.UpsertStatus(ctx, riderID, online)
	if err != nil {
		observability.StatusUpdatesTotal.WithLabelValues("unavailable").Inc()
		return nil, apperrors.Unavailable("Failed to update status", err)
	}

	s.logger.Info("Status updated",
		logger.Int64("rider_id", riderID),
		logger.Bool("is_online", online),
	)

	s.publisher.Publish(EventStatusChanged, StatusChangedPayload{
		RiderID:   st.RiderID,
		IsOnline:  st.IsOnline,
		Timestamp: st.LastUpdated,
	})
	observability.StatusUpdatesTotal.WithLabelValues("ok").Inc()
	observability.BroadcastsTotal.WithLabelValues(EventStatusChanged).Inc()

	return st, nil
}

// SetLocation validates and upserts the rider's latest position, then
// broadcasts it. clientTS, when parseable as RFC 3339, becomes the
// location time; otherwise the server clock is used and the bad value is
// only logged.
func (s *Service) SetLocation(ctx context.Context, riderID int64, lat, lon float64, clientTS string) (*rider.Location, error) {
	if !rider.ValidCoordinates(lat, lon) {
		observability.LocationUpdatesTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrInvalidCoordinates
	}

	locationTime := s.now()
	if clientTS != "" {
		if t, err := time.Parse(time.RFC3339, clientTS); err == nil {
			locationTime = t
		} else {
			s.logger.Warn("Invalid timestamp format, using server time",
				logger.String("timestamp", clientTS),
				logger.Int64("rider_id", riderID),
			)
		}
	}

	exists, err := s.repo.Exists(ctx, riderID)
	if err != nil {
		observability.LocationUpdatesTotal.WithLabelValues("unavailable").Inc()
		return nil, apperrors.Unavailable("Database connection failed", err)
	}
	if !exists {
		observability.LocationUpdatesTotal.WithLabelValues("not_found").Inc()
		return nil, apperrors.ErrRiderNotFound
	}

	loc, err := s.repo.UpsertLocation(ctx, riderID, lat, lon, locationTime)
	if err != nil {
		observability.LocationUpdatesTotal.WithLabelValues("unavailable").Inc()
		return nil, apperrors.Unavailable("Failed to update location", err)
	}

	s.mirrorGeoIndex(ctx, riderID, lat, lon)

	s.publisher.Publish(EventLocationUpdated, LocationUpdatedPayload{
		RiderID:   loc.RiderID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timestamp: loc.LocationTime,
	})
	observability.LocationUpdatesTotal.WithLabelValues("ok").Inc()
	observability.BroadcastsTotal.WithLabelValues(EventLocationUpdated).Inc()

	return loc, nil
}

// LatestLocation returns the rider's current position
func (s *Service) LatestLocation(ctx context.Context, riderID int64) (*rider.Location, error) {
	loc, err := s.repo.LatestLocation(ctx, riderID)
	if errors.Is(err, rider.ErrNoLocation) {
		return nil, apperrors.ErrLocationNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("Failed to read location", err)
	}
	return loc, nil
}

// OnlineSnapshot returns every online rider with their latest known
// position, ordered by rider ID
func (s *Service) OnlineSnapshot(ctx context.Context) ([]*rider.OnlineRider, error) {
	riders, err := s.repo.OnlineSnapshot(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to read online riders", err)
	}
	if riders == nil {
		riders = []*rider.OnlineRider{}
	}
	return riders, nil
}

// mirrorGeoIndex keeps the Redis geo set in step with the store for fast
// proximity lookups. Failures here never fail the mutation.
func (s *Service) mirrorGeoIndex(ctx context.Context, riderID int64, lat, lon float64) {
	if s.redis == nil {
		return
	}
	err := s.redis.GeoAdd(ctx, geoIndexKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(riderID, 10),
		Latitude:  lat,
		Longitude: lon,
	}).Err()
	if err != nil {
		s.logger.Warn("Failed to update Redis geo index",
			logger.Err(err),
			logger.Int64("rider_id", riderID),
		)
	}
}
