package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
)

// APIHandlers provides the read-only HTTP endpoints over the registry.
type APIHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(registry *core.Registry, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{registry: registry, log: logger}
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomCode    string `json:"roomCode"`
	UsersOnline int    `json:"usersOnline"`
	CreatedAt   string `json:"createdAt"`
}

// StatsResponse represents process-wide totals.
type StatsResponse struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetRoom reports occupancy for one room code.
// GET /api/rooms/:code
func (h *APIHandlers) GetRoom(c *gin.Context) {
	info, ok := h.registry.RoomInfo(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		RoomCode:    info.Code,
		UsersOnline: info.UsersOnline,
		CreatedAt:   info.CreatedAt.Format(time.RFC3339),
	})
}

// GetStats reports registry totals.
// GET /api/stats
func (h *APIHandlers) GetStats(c *gin.Context) {
	stats := h.registry.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		Rooms:       stats.Rooms,
		Connections: stats.Connections,
	})
}
