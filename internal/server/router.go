// Package server wires the HTTP surface: JSON API routes, the
// websocket endpoint, metrics, and static asset serving.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IT-MikeS/secret-santa-thing/internal/service"
	"github.com/IT-MikeS/secret-santa-thing/internal/session"
)

// Handler bundles the dependencies of the HTTP and websocket handlers.
type Handler struct {
	svc   *service.Service
	coord *session.Coordinator
}

// NewHandler creates a Handler on top of the service and coordinator.
func NewHandler(svc *service.Service, coord *session.Coordinator) *Handler {
	return &Handler{svc: svc, coord: coord}
}

// NewRouter builds the gin engine with all routes registered. staticDir
// may be empty to disable static serving (tests do this).
func NewRouter(h *Handler, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS())

	api := r.Group("/api")
	api.POST("/create-group", h.CreateGroup)
	api.GET("/group", h.GetGroup)
	api.GET("/user-groups", h.UserGroups)
	api.POST("/join-group", h.JoinGroup)
	api.POST("/generate-pairs", h.GeneratePairs)

	r.GET("/ws", h.ServeWS)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if staticDir != "" {
		registerStatic(r, staticDir)
	}

	return r
}
