package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT-MikeS/secret-santa-thing/internal/service"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage"
)

// CreateGroupRequest is the body of POST /api/create-group.
type CreateGroupRequest struct {
	Name    string `json:"name" binding:"required"`
	Creator string `json:"creator" binding:"required"`
	UserID  string `json:"userId"` // optional; server assigns a UUID if empty
}

// JoinGroupRequest is the body of POST /api/join-group.
type JoinGroupRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

// CreateGroup creates a group with its creator as the first member.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, userID, err := h.svc.CreateGroup(c.Request.Context(), req.Name, req.Creator, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": groupID, "userId": userID})
}

// GetGroup returns the full group snapshot for ?id=.
func (h *Handler) GetGroup(c *gin.Context) {
	groupID := c.Query("id")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group ID required"})
		return
	}

	group, err := h.svc.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// UserGroups lists the groups the user identified by ?userId= belongs to.
func (h *Handler) UserGroups(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	groups, err := h.svc.UserGroups(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// JoinGroup adds a member to a group and broadcasts the new snapshot.
func (h *Handler) JoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.JoinGroup(c.Request.Context(), req.GroupID, req.UserID, req.Name); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// GeneratePairs runs pair generation for the group identified by ?id=.
func (h *Handler) GeneratePairs(c *gin.Context) {
	groupID := c.Query("id")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group ID required"})
		return
	}

	if err := h.svc.GeneratePairs(c.Request.Context(), groupID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// writeError maps domain errors onto HTTP status codes. Validation and
// conflict errors are 400s, missing groups are 404s, anything else is a
// storage failure and surfaces as a 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrAlreadyGenerated),
		errors.Is(err, service.ErrTooFewMembers):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
