package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gocomet/rider-tracker/internal/domain/rider"
	"github.com/gocomet/rider-tracker/internal/observability"
	"github.com/gocomet/rider-tracker/internal/service/tracking"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// StatusReconciler receives the synthetic offline mutation when an
// announced session disconnects. Implemented by tracking.Service.
type StatusReconciler interface {
	SetStatus(ctx context.Context, riderID int64, online bool) (*rider.Status, error)
}

// Message is the envelope every broadcast event is delivered in
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of live connections, the rider presence
// registry, and the broadcast fan-out. All events flow through a single
// broadcast channel, which fixes one global publish order for every
// subscriber.
type Hub struct {
	clients map[*Client]bool
	// riders binds an announced identity to its live session. A second
	// announcement for the same rider overwrites the entry; the
	// displaced session is orphaned and its disconnect becomes a no-op.
	riders map[int64]*Client

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu         sync.RWMutex
	reconciler StatusReconciler
	logger     *logger.Logger
}

// NewHub creates a hub. reconciler may be set later via SetReconciler to
// break the construction cycle with the tracking service.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		riders:     make(map[int64]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// SetReconciler wires the status reconciler used for disconnect handling
func (h *Hub) SetReconciler(r StatusReconciler) {
	h.reconciler = r
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			observability.ActiveSessions.Inc()
			h.logger.Info("Client connected",
				logger.String("client_id", client.ID),
				logger.String("client_type", client.ClientType),
			)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// Register registers a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client and triggers the offline reconciliation
// for announced sessions
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish enqueues an event for delivery to every subscriber. It
// implements tracking.Publisher; the caller is never blocked beyond the
// enqueue itself.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Type: event, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", logger.Err(err))
		return
	}
	h.broadcast <- payload
}

// Announce binds a rider identity to a live session. Last announcement
// wins; an existing binding for the same rider is overwritten and the
// prior session orphaned. The transition is broadcast but not persisted,
// matching the live-channel contract.
func (h *Hub) Announce(client *Client, riderID int64) {
	h.mu.Lock()
	if prev, ok := h.riders[riderID]; ok && prev != client {
		h.logger.Warn("Rider re-announced on a new session, orphaning previous",
			logger.Int64("rider_id", riderID),
			logger.String("previous_client_id", prev.ID),
			logger.String("client_id", client.ID),
		)
	}
	h.riders[riderID] = client
	count := len(h.riders)
	h.mu.Unlock()

	observability.AnnouncedRiders.Set(float64(count))
	h.logger.Info("Rider announced online",
		logger.Int64("rider_id", riderID),
		logger.String("client_id", client.ID),
	)

	h.Publish(tracking.EventStatusChanged, tracking.StatusChangedPayload{
		RiderID:   riderID,
		IsOnline:  true,
		Timestamp: time.Now().UTC(),
	})
}

// Withdraw removes a rider's registry binding on an explicit offline
// signal and broadcasts the transition. Unknown riders are ignored.
func (h *Hub) Withdraw(riderID int64) {
	h.mu.Lock()
	_, ok := h.riders[riderID]
	if ok {
		delete(h.riders, riderID)
	}
	count := len(h.riders)
	h.mu.Unlock()

	if !ok {
		return
	}

	observability.AnnouncedRiders.Set(float64(count))
	h.logger.Info("Rider marked offline", logger.Int64("rider_id", riderID))

	h.Publish(tracking.EventStatusChanged, tracking.StatusChangedPayload{
		RiderID:   riderID,
		IsOnline:  false,
		Timestamp: time.Now().UTC(),
	})
}

// removeClient drops a client from the hub. Disconnect events carry only
// the session handle, so the rider binding is found by a reverse scan of
// the registry. Sessions that never announced, or were orphaned by a
// later announcement, produce no mutation and no broadcast.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	// The client may already be gone from the connection set if the
	// fan-out dropped it; the registry binding still has to be cleared.
	_, connected := h.clients[client]
	if connected {
		delete(h.clients, client)
		close(client.Send)
	}

	var riderID int64
	announced := false
	for id, c := range h.riders {
		if c == client {
			riderID = id
			announced = true
			break
		}
	}
	if announced {
		delete(h.riders, riderID)
	}
	count := len(h.riders)
	h.mu.Unlock()

	if connected {
		observability.ActiveSessions.Dec()
		h.logger.Info("Client disconnected", logger.String("client_id", client.ID))
	}

	if !announced {
		return
	}

	observability.AnnouncedRiders.Set(float64(count))

	// Synthetic offline mutation: persist and broadcast through the
	// reconciler, same path as a REST status write. Runs off the hub
	// loop so a slow store never stalls registration and fan-out.
	if h.reconciler != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := h.reconciler.SetStatus(ctx, riderID, false); err != nil {
				h.logger.Error("Failed to reconcile offline status on disconnect",
					logger.Err(err),
					logger.Int64("rider_id", riderID),
				)
			}
		}()
	}
}

// fanOut delivers one event to every subscriber. A full or closed send
// buffer drops that subscriber; delivery is at-most-once with no
// backfill and the failure never reaches the publisher.
func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
			observability.ActiveSessions.Dec()
			observability.DroppedSubscribersTotal.Inc()
			h.logger.Warn("Dropping slow subscriber",
				logger.String("client_id", client.ID),
			)
		}
	}
}

// ActiveConnections returns the number of live sessions
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AnnouncedRiders returns the number of riders bound to a live session
func (h *Hub) AnnouncedRiders() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.riders)
}

// SessionFor returns the client currently bound to a rider, nil when the
// rider has no live session
func (h *Hub) SessionFor(riderID int64) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.riders[riderID]
}
