package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_tracker", Name: "status_updates_total", Help: "Total rider status updates by result"},
		[]string{"result"},
	)
	LocationUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_tracker", Name: "location_updates_total", Help: "Total rider location updates by result"},
		[]string{"result"},
	)
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_tracker", Name: "broadcasts_total", Help: "Events published on the broadcast channel"},
		[]string{"event"},
	)
	DroppedSubscribersTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "rider_tracker", Name: "dropped_subscribers_total", Help: "Subscribers dropped for a full or closed send buffer"},
	)
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "rider_tracker", Name: "active_sessions", Help: "Currently connected WebSocket clients"},
	)
	AnnouncedRiders = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "rider_tracker", Name: "announced_riders", Help: "Riders bound to a live session"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_tracker", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rider_tracker",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
