package analysis

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-tracking/internal/transport"
)

type ServiceAPI interface {
	ToolsUsage(ctx context.Context) ([]ToolUsage, error)
	ToolsDamaged(ctx context.Context) (*DamagedTools, error)
	ToolsLost(ctx context.Context) (*LostTools, error)
	StockRequested(ctx context.Context) (*StockRequested, error)
	StockPurchased(ctx context.Context) (*StockPurchased, error)
	Summary(ctx context.Context) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ToolsUsage handles GET /api/analysis/tools-usage
func (h *Handler) ToolsUsage(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.ToolsUsage)
}

// ToolsDamaged handles GET /api/analysis/tools-damaged
func (h *Handler) ToolsDamaged(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.ToolsDamaged)
}

// ToolsLost handles GET /api/analysis/tools-lost
func (h *Handler) ToolsLost(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.ToolsLost)
}

// StockRequested handles GET /api/analysis/stock-requested
func (h *Handler) StockRequested(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.StockRequested)
}

// StockPurchased handles GET /api/analysis/stock-purchased
func (h *Handler) StockPurchased(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.StockPurchased)
}

// Summary handles GET /api/analysis/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.Service.Summary)
}

func respond[T any](h *Handler, w http.ResponseWriter, r *http.Request, view func(context.Context) (T, error)) {
	result, err := view(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
