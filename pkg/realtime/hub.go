package realtime

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freelancehub/freelancehub-backend/pkg/metrics"
)

const (
	// shardCount buckets the room registry so unrelated rooms never
	// contend on one lock.
	shardCount = 16

	// subscriberBuffer bounds each subscriber channel. A full buffer
	// drops the event: delivery is best-effort and at-most-once.
	subscriberBuffer = 32
)

// UserRoom names the personal room for an identity.
func UserRoom(userID string) string { return "user:" + userID }

// OrderRoom names the shared room for an order's participants.
func OrderRoom(orderID string) string { return "order:" + orderID }

// Event is the payload fanned out to room subscribers.
type Event struct {
	Name      string         `json:"event"`
	Room      string         `json:"room,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Subscriber is one live connection. It belongs to at most one identity and
// any number of rooms; nothing survives a disconnect.
type Subscriber struct {
	id     uuid.UUID
	userID string
	events chan Event

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

// Events exposes the receive side of the subscriber channel. The channel is
// closed on disconnect.
func (s *Subscriber) Events() <-chan Event { return s.events }

// UserID returns the identity the subscriber connected with, if any.
func (s *Subscriber) UserID() string { return s.userID }

// trySend delivers ev unless the subscriber is closed or its buffer is full.
func (s *Subscriber) trySend(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

type roomShard struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

// Hub is the process-wide pub/sub registry mapping room name to the set of
// live subscribers. Authorization for joining a room is the caller's job;
// the hub knows nothing about orders or users beyond room names.
type Hub struct {
	shards  [shardCount]*roomShard
	metrics *metrics.HubMetrics
}

// NewHub builds an empty hub. Metrics may be nil.
func NewHub(m *metrics.HubMetrics) *Hub {
	h := &Hub{metrics: m}
	for i := range h.shards {
		h.shards[i] = &roomShard{rooms: make(map[string]map[*Subscriber]struct{})}
	}
	return h
}

func (h *Hub) shardFor(room string) *roomShard {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(room))
	return h.shards[hasher.Sum32()%shardCount]
}

// Connect registers a new subscriber. A non-empty identity auto-joins its
// personal room and receives a connect acknowledgement.
func (h *Hub) Connect(userID string) *Subscriber {
	sub := &Subscriber{
		id:     uuid.New(),
		userID: userID,
		events: make(chan Event, subscriberBuffer),
		rooms:  make(map[string]struct{}),
	}
	if userID != "" {
		h.Join(sub, UserRoom(userID))
		sub.trySend(Event{
			Name:      "connected",
			Data:      map[string]any{"user_id": userID},
			Timestamp: time.Now().UTC(),
		})
	}
	return sub
}

// Join adds the subscriber to a room. Joining after disconnect is a no-op.
func (h *Hub) Join(sub *Subscriber, room string) {
	if sub == nil || room == "" {
		return
	}

	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.rooms[room] = struct{}{}
	sub.mu.Unlock()

	shard := h.shardFor(room)
	shard.mu.Lock()
	members, ok := shard.rooms[room]
	if !ok {
		members = make(map[*Subscriber]struct{})
		shard.rooms[room] = members
	}
	members[sub] = struct{}{}
	shard.mu.Unlock()
}

// Publish delivers the event to every subscriber currently in the room and
// returns the delivered count. The member set is snapshotted before sending,
// so a concurrent disconnect never blocks an in-flight fan-out.
func (h *Hub) Publish(room string, ev Event) int {
	if room == "" {
		return 0
	}
	ev.Room = room
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	shard := h.shardFor(room)
	shard.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(shard.rooms[room]))
	for sub := range shard.rooms[room] {
		snapshot = append(snapshot, sub)
	}
	shard.mu.RUnlock()

	delivered := 0
	for _, sub := range snapshot {
		if sub.trySend(ev) {
			delivered++
			h.metrics.IncDelivered(ev.Name)
		} else {
			h.metrics.IncDropped(ev.Name)
		}
	}
	return delivered
}

// Disconnect removes the subscriber from every room and closes its channel.
// Safe to call more than once.
func (h *Hub) Disconnect(sub *Subscriber) {
	if sub == nil {
		return
	}

	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.closed = true
	rooms := make([]string, 0, len(sub.rooms))
	for room := range sub.rooms {
		rooms = append(rooms, room)
	}
	sub.rooms = nil
	close(sub.events)
	sub.mu.Unlock()

	for _, room := range rooms {
		shard := h.shardFor(room)
		shard.mu.Lock()
		if members, ok := shard.rooms[room]; ok {
			delete(members, sub)
			if len(members) == 0 {
				delete(shard.rooms, room)
			}
		}
		shard.mu.Unlock()
	}
}
