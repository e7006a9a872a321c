// Package api provides the HTTP handlers for the roster service: user
// registry CRUD, the credential-hiding validate-email proxy, and the
// per-user validation controls.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/upstream"
	"github.com/KaruG1999/roster/internal/verify"
)

// Handler manages API endpoints
type Handler struct {
	store      *registry.Store
	upstream   *upstream.Client
	controller *verify.Controller

	validate    *validator.Validate
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "roster",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
