package stock

import (
	"context"
	"io"
	"net/http"

	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*StockItem, error)
	Create(ctx context.Context, dto CreateDTO) (*StockItem, error)
	Update(ctx context.Context, id string, dto UpdateDTO) (*StockItem, error)
	Delete(ctx context.Context, id string) error
	Consume(ctx context.Context, dto ConsumeDTO) (*ConsumeResult, error)
	UploadReceipt(ctx context.Context, id, filename string, content io.Reader) (string, error)
	OpenReceipt(ctx context.Context, id string) (*Download, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	maxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListStock handles GET /api/stock
func (h *Handler) ListStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreateStock handles POST /api/stock
func (h *Handler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// UpdateStock handles PUT /api/stock/{id}
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var dto UpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// DeleteStock handles DELETE /api/stock/{id}
func (h *Handler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Stock item deleted successfully", nil)
}

// ConsumeStock handles POST /api/stock/consume
func (h *Handler) ConsumeStock(w http.ResponseWriter, r *http.Request) {
	var dto ConsumeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Consume(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// UploadReceipt handles POST /api/stock/{id}/upload-receipt
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	file, header, err := h.ReadUpload(w, r, h.maxUploadBytes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer file.Close()

	rel, err := h.Service.UploadReceipt(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UploadResponse{Message: "Receipt uploaded successfully", FilePath: rel})
}

// DownloadReceipt handles GET /api/stock/{id}/download-receipt
func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	dl, err := h.Service.OpenReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer dl.Content.Close()
	h.WriteAttachment(w, dl.Filename, dl.Content)
}
