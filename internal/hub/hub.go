// Package hub implements the per-group connection registry. It maps a
// group ID to the set of live connections for that group, keyed by the
// member's user ID, and fans broadcast messages out to all of them.
//
// The registry holds no business state: values are outbound byte
// channels owned by the session layer. A single RWMutex guards the map;
// broadcasts and lookups take the read lock, connect/disconnect take
// the write lock.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/IT-MikeS/secret-santa-thing/internal/metrics"
)

// Hub is the process-wide connection registry.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]chan []byte
}

// New constructs an empty Hub.
func New() *Hub {
	return &Hub{groups: make(map[string]map[string]chan []byte)}
}

// Register inserts send as the live connection for (groupID, userID),
// replacing any prior connection for the same key. The displaced
// channel is closed so its outbound pump terminates; last writer wins.
func (h *Hub) Register(groupID, userID string, send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[groupID]
	if !ok {
		members = make(map[string]chan []byte)
		h.groups[groupID] = members
	}
	if old, ok := members[userID]; ok {
		close(old)
	} else {
		metrics.ActiveConnections.Inc()
	}
	members[userID] = send
}

// Unregister removes the entry for (groupID, userID), but only if send
// is still the registered channel: a stale connection displaced by a
// newer one must not tear down its replacement. Removing the last
// member of a group removes the group entry entirely. Absent keys are
// a no-op; disconnect races are expected.
func (h *Hub) Unregister(groupID, userID string, send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[groupID]
	if !ok {
		return
	}
	if cur, ok := members[userID]; !ok || cur != send {
		return
	}
	delete(members, userID)
	metrics.ActiveConnections.Dec()
	if len(members) == 0 {
		delete(h.groups, groupID)
	}
}

// Broadcast serializes message once and delivers it to every connection
// currently registered for the group. Delivery is fire-and-forget: a
// connection whose send buffer is full misses the message, and a group
// with no connections is a valid no-op.
func (h *Hub) Broadcast(groupID string, message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "group_id", groupID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	metrics.BroadcastsTotal.Inc()
	for userID, send := range h.groups[groupID] {
		select {
		case send <- payload:
		default:
			metrics.MessagesDropped.Inc()
			slog.Warn("Dropped message for slow connection", "group_id", groupID, "user_id", userID)
		}
	}
}

// ConnectionCount returns the number of live connections for a group.
func (h *Hub) ConnectionCount(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}
