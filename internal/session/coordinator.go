// Package session manages the lifecycle of live websocket connections
// and the plumbing between persistence mutations and registry broadcasts.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/IT-MikeS/secret-santa-thing/internal/hub"
	"github.com/IT-MikeS/secret-santa-thing/internal/models"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage"
)

const (
	// sendBuffer is the per-connection outbound queue depth. Broadcasts
	// to a connection with a full buffer are dropped, not blocked on.
	sendBuffer = 256

	writeTimeout = 10 * time.Second
)

// Coordinator wires the connection registry to persistence. It performs
// no business validation; callers mutate storage first and then ask the
// coordinator to notify whoever is watching.
type Coordinator struct {
	store    storage.Store
	registry *hub.Hub
}

// New creates a Coordinator on top of the given store and registry.
func New(store storage.Store, registry *hub.Hub) *Coordinator {
	return &Coordinator{store: store, registry: registry}
}

// HandleConn runs the full lifecycle of one live connection for the
// (groupID, userID) pair and blocks until the connection is done. The
// caller owns validation of the identifiers; conn is always closed
// before HandleConn returns.
//
// The initial snapshot (and the member's own assignment, if pairs are
// already generated) is queued into the send channel before the
// connection is registered for broadcasts, so a client is consistent
// the moment it starts receiving.
func (c *Coordinator) HandleConn(ctx context.Context, conn *websocket.Conn, groupID, userID string) {
	send := make(chan []byte, sendBuffer)
	c.queueInitialState(ctx, send, groupID, userID)

	c.registry.Register(groupID, userID, send)
	defer c.registry.Unregister(groupID, userID, send)
	defer conn.Close()

	// Inbound loop: the protocol is server-push only, so client frames
	// are drained and discarded until the peer closes or errors.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Outbound loop. Returning closes the socket, which in turn ends
	// the inbound loop; the inbound loop ending cancels us via done.
	for {
		select {
		case payload, ok := <-send:
			if !ok {
				// Displaced by a newer connection for the same member.
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Debug("Websocket write failed", "group_id", groupID, "user_id", userID, "error", err)
				return
			}
		case <-done:
			return
		}
	}
}

// queueInitialState pushes the group snapshot, and the member's own
// assignment when one exists, into this connection's queue only.
func (c *Coordinator) queueInitialState(ctx context.Context, send chan []byte, groupID, userID string) {
	group, err := c.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Warn("No snapshot for new connection", "group_id", groupID, "error", err)
		return
	}
	queue(send, models.GroupUpdateMessage(group))

	if !group.IsGenerated {
		return
	}
	assignment, err := c.store.GetAssignmentFor(ctx, groupID, userID)
	if err != nil {
		slog.Error("Failed to load assignment for connection", "group_id", groupID, "user_id", userID, "error", err)
		return
	}
	if assignment == nil {
		// Generated but no row for this member; treat as "no assignment
		// yet" rather than an error.
		return
	}
	queue(send, models.AssignmentMessage(assignment.ReceiverName))
}

// GroupChanged broadcasts a fresh group snapshot to every connection in
// the group. Called after a membership mutation commits.
func (c *Coordinator) GroupChanged(ctx context.Context, groupID string) {
	group, err := c.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("Failed to load group for broadcast", "group_id", groupID, "error", err)
		return
	}
	c.registry.Broadcast(groupID, models.GroupUpdateMessage(group))
}

// PairsGenerated broadcasts the aggregate pairing event to every
// connection in the group. Called after the generation transaction
// commits.
func (c *Coordinator) PairsGenerated(groupID string, byUserID, pairs map[string]string) {
	c.registry.Broadcast(groupID, models.AssignmentsGeneratedMessage(byUserID, pairs))
}

func queue(send chan []byte, msg models.Envelope) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	send <- payload
}
