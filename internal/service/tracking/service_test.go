package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/rider-tracker/internal/domain/rider"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// fakeRepo is an in-memory rider.Repository with the same per-identity
// upsert semantics as the Postgres store.
type fakeRepo struct {
	mu        sync.Mutex
	riders    map[int64]*rider.Rider
	statuses  map[int64]*rider.Status
	locations map[int64]*rider.Location
	failAll   bool
}

func newFakeRepo(ids ...int64) *fakeRepo {
	r := &fakeRepo{
		riders:    make(map[int64]*rider.Rider),
		statuses:  make(map[int64]*rider.Status),
		locations: make(map[int64]*rider.Location),
	}
	for _, id := range ids {
		r.riders[id] = &rider.Rider{ID: id, Name: "rider"}
	}
	return r
}

var errStoreDown = errors.New("store down")

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*rider.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	r, ok := f.riders[id]
	if !ok {
		return nil, rider.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (*rider.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.riders {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, rider.ErrNotFound
}

func (f *fakeRepo) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, errStoreDown
	}
	_, ok := f.riders[id]
	return ok, nil
}

func (f *fakeRepo) UpsertStatus(_ context.Context, id int64, online bool) (*rider.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	st := &rider.Status{RiderID: id, IsOnline: online, LastUpdated: time.Now().UTC()}
	f.statuses[id] = st
	return st, nil
}

func (f *fakeRepo) GetStatus(_ context.Context, id int64) (*rider.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id], nil
}

func (f *fakeRepo) UpsertLocation(_ context.Context, id int64, lat, lon float64, at time.Time) (*rider.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	loc := &rider.Location{RiderID: id, Latitude: lat, Longitude: lon, LocationTime: at}
	f.locations[id] = loc
	return loc, nil
}

func (f *fakeRepo) LatestLocation(_ context.Context, id int64) (*rider.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.locations[id]
	if !ok {
		return nil, rider.ErrNoLocation
	}
	return loc, nil
}

func (f *fakeRepo) OnlineSnapshot(_ context.Context) ([]*rider.OnlineRider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rider.OnlineRider
	for id := int64(0); id < 1000; id++ {
		st, ok := f.statuses[id]
		if !ok || !st.IsOnline {
			continue
		}
		or := &rider.OnlineRider{RiderID: id, IsOnline: true, LastUpdated: st.LastUpdated}
		if loc, ok := f.locations[id]; ok {
			or.Latitude = &loc.Latitude
			or.Longitude = &loc.Longitude
			or.LastLocationTime = &loc.LocationTime
		}
		out = append(out, or)
	}
	return out, nil
}

// capturePublisher records published events in order
type capturePublisher struct {
	mu     sync.Mutex
	events []string
	data   []interface{}
}

func (p *capturePublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.data = append(p.data, data)
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService(t *testing.T, repo rider.Repository, pub Publisher) *Service {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewService(repo, pub, nil, log)
}

func TestSetStatus_UnknownRider(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	_, err := svc.SetStatus(context.Background(), 42, true)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Zero(t, pub.count(), "no broadcast on rejected mutation")
}

func TestSetStatus_StoreUnavailable(t *testing.T) {
	repo := newFakeRepo(7)
	repo.failAll = true
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	_, err := svc.SetStatus(context.Background(), 7, true)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "UNAVAILABLE", appErr.Code)
	assert.Zero(t, pub.count())
}

func TestSetStatus_BroadcastsUnconditionally(t *testing.T) {
	repo := newFakeRepo(7)
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	// Same value twice still produces one broadcast per call
	_, err := svc.SetStatus(context.Background(), 7, true)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), 7, true)
	require.NoError(t, err)

	assert.Equal(t, []string{EventStatusChanged, EventStatusChanged}, pub.events)
	payload := pub.data[1].(StatusChangedPayload)
	assert.Equal(t, int64(7), payload.RiderID)
	assert.True(t, payload.IsOnline)
}

func TestSetStatus_FlipExcludesFromSnapshot(t *testing.T) {
	repo := newFakeRepo(7)
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	_, err := svc.SetStatus(context.Background(), 7, true)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), 7, false)
	require.NoError(t, err)

	snap, err := svc.OnlineSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap, "offline rider must not appear in snapshot")

	// Two status events observed in order {true, false}
	require.Len(t, pub.events, 2)
	assert.True(t, pub.data[0].(StatusChangedPayload).IsOnline)
	assert.False(t, pub.data[1].(StatusChangedPayload).IsOnline)
}

func TestSetStatus_ConcurrentWrites(t *testing.T) {
	repo := newFakeRepo(7)
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.SetStatus(context.Background(), 7, true)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.SetStatus(context.Background(), 7, false)
		assert.NoError(t, err)
	}()
	wg.Wait()

	// Exactly one persisted row and one broadcast per call
	st, err := repo.GetStatus(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 2, pub.count())

	// One broadcast carried true and one carried false
	seen := map[bool]int{}
	for _, d := range pub.data {
		seen[d.(StatusChangedPayload).IsOnline]++
	}
	assert.Equal(t, 1, seen[true])
	assert.Equal(t, 1, seen[false])
}

func TestSetLocation_InvalidCoordinates(t *testing.T) {
	repo := newFakeRepo(7)
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 200, 77.59},
		{"latitude too low", -91, 77.59},
		{"longitude too high", 12.97, 181},
		{"longitude too low", 12.97, -180.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetLocation(context.Background(), 7, tt.lat, tt.lon, "")
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, "INVALID_ARGUMENT", appErr.Code)
		})
	}

	assert.Zero(t, pub.count(), "no broadcast on invalid input")
	assert.Empty(t, repo.locations, "no store mutation on invalid input")
}

func TestSetLocation_UpsertIsLatestPositionWins(t *testing.T) {
	repo := newFakeRepo(7)
	pub := &capturePublisher{}
	svc := newTestService(t, repo, pub)

	_, err := svc.SetLocation(context.Background(), 7, 12.9716, 77.5946, "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	_, err = svc.SetLocation(context.Background(), 7, 13.0, 77.6, "")
	require.NoError(t, err)

	loc, err := svc.LatestLocation(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 13.0, loc.Latitude)
	assert.Equal(t, 77.6, loc.Longitude)
	assert.Len(t, repo.locations, 1, "one current row per rider, never an accumulated log")
}

func TestSetLocation_ClientTimestamp(t *testing.T) {
	repo := newFakeRepo(7)
	svc := newTestService(t, repo, &capturePublisher{})

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	// Valid client timestamp wins
	loc, err := svc.SetLocation(context.Background(), 7, 12.9716, 77.5946, "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), loc.LocationTime.UTC())

	// Unparseable timestamp falls back to server time, not an error
	loc, err = svc.SetLocation(context.Background(), 7, 12.9716, 77.5946, "last tuesday")
	require.NoError(t, err)
	assert.Equal(t, fixed, loc.LocationTime)

	// Absent timestamp uses server time
	loc, err = svc.SetLocation(context.Background(), 7, 12.9716, 77.5946, "")
	require.NoError(t, err)
	assert.Equal(t, fixed, loc.LocationTime)
}

func TestLatestLocation_NoneRecorded(t *testing.T) {
	repo := newFakeRepo(7)
	svc := newTestService(t, repo, &capturePublisher{})

	_, err := svc.LatestLocation(context.Background(), 7)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestOnlineSnapshot_JoinsLatestLocation(t *testing.T) {
	repo := newFakeRepo(3, 7)
	svc := newTestService(t, repo, &capturePublisher{})

	_, err := svc.SetStatus(context.Background(), 3, true)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), 7, true)
	require.NoError(t, err)
	_, err = svc.SetLocation(context.Background(), 7, 12.9716, 77.5946, "")
	require.NoError(t, err)

	snap, err := svc.OnlineSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)

	// Ordered by rider ID ascending; location fields optional
	assert.Equal(t, int64(3), snap[0].RiderID)
	assert.Nil(t, snap[0].Latitude)
	assert.Equal(t, int64(7), snap[1].RiderID)
	require.NotNil(t, snap[1].Latitude)
	assert.Equal(t, 12.9716, *snap[1].Latitude)
}
