package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler handles the health check endpoint.
type HealthHandler struct {
	db *pgxpool.Pool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health. It always answers 200; a broken database shows
// up in the body, not the status code.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":   "ok",
		"database": "ok",
	}
	if err := h.db.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = "error"
	}
	JSON(w, http.StatusOK, status)
}
