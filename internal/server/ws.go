package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin enforcement is left to the deployment; the API is
		// already wide open via CORS.
		return true
	},
}

// ServeWS upgrades GET /ws?id=&userId= and hands the socket to the
// session coordinator for the rest of its life. Both identifiers are
// required; the connection is never established without them.
func (h *Handler) ServeWS(c *gin.Context) {
	groupID := c.Query("id")
	userID := c.Query("userId")
	if groupID == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group ID and user ID required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	h.coord.HandleConn(c.Request.Context(), conn, groupID, userID)
}
