package rest

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/frahmantamala/asset-tracking/internal/transport"
)

const storePingTimeout = 2 * time.Second

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// StoreHealth describes the single primary store the service runs on.
type StoreHealth struct {
	Status          HealthStatus `json:"status"`
	Driver          string       `json:"driver"`
	Message         string       `json:"message,omitempty"`
	OpenConnections int          `json:"open_connections"`
	InUse           int          `json:"in_use"`
	Idle            int          `json:"idle"`
	LatencyMs       int64        `json:"latency_ms"`
}

type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	CheckedAt  time.Time              `json:"checked_at"`
	Components map[string]StoreHealth `json:"components"`
}

type HealthHandler struct {
	*transport.BaseHandler
	db     *sql.DB
	driver string
}

func NewHealthHandler(base *transport.BaseHandler, db *sql.DB, driver string) *HealthHandler {
	if driver == "" {
		driver = "database"
	}
	return &HealthHandler{BaseHandler: base, db: db, driver: driver}
}

// Ping handles GET /api/ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health handles GET /api/health. The store is reported under its driver
// name and a failed ping answers 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	store := h.checkStore(r.Context())

	status := http.StatusOK
	if store.Status != HealthHealthy {
		status = http.StatusServiceUnavailable
		h.Logger.Error("store health check failed", "driver", h.driver, "error", store.Message)
	}

	h.WriteJSON(w, status, HealthResponse{
		Status:     store.Status,
		CheckedAt:  time.Now().UTC(),
		Components: map[string]StoreHealth{h.driver: store},
	})
}

func (h *HealthHandler) checkStore(ctx context.Context) StoreHealth {
	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	stats := h.db.Stats()

	store := StoreHealth{
		Status:          HealthHealthy,
		Driver:          h.driver,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		LatencyMs:       time.Since(start).Milliseconds(),
	}
	if err != nil {
		store.Status = HealthUnhealthy
		store.Message = err.Error()
	}
	return store
}
