package tool

import (
	"context"
	"io"
	"net/http"

	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]ToolResponse, error)
	Create(ctx context.Context, dto ToolDTO) (ToolResponse, error)
	Update(ctx context.Context, id string, dto ToolDTO) (ToolResponse, error)
	Delete(ctx context.Context, id string) error
	UploadCertificate(ctx context.Context, id, filename string, content io.Reader) (string, error)
	UploadManual(ctx context.Context, id, filename string, content io.Reader) (string, error)
	OpenCertificate(ctx context.Context, id string) (*Download, error)
	OpenManual(ctx context.Context, id string) (*Download, error)
	Barcode(ctx context.Context, id string) (*report.Document, error)
	Export(ctx context.Context) (*report.Document, error)
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

// ListTools handles GET /api/tools
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tools)
}

// CreateTool handles POST /api/tools
func (h *Handler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var dto ToolDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// UpdateTool handles PUT /api/tools/{id}
func (h *Handler) UpdateTool(w http.ResponseWriter, r *http.Request) {
	var dto ToolDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// DeleteTool handles DELETE /api/tools/{id}
func (h *Handler) DeleteTool(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Tool deleted successfully", nil)
}

// UploadCertificate handles POST /api/tools/{id}/upload-certificate
func (h *Handler) UploadCertificate(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.Service.UploadCertificate, "Certificate uploaded successfully")
}

// UploadManual handles POST /api/tools/{id}/upload-manual
func (h *Handler) UploadManual(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.Service.UploadManual, "Manual uploaded successfully")
}

type uploadFunc func(ctx context.Context, id, filename string, content io.Reader) (string, error)

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, save uploadFunc, message string) {
	file, header, err := h.ReadUpload(w, r, h.maxUploadBytes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer file.Close()

	rel, err := save(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UploadResponse{Message: message, FilePath: rel})
}

// DownloadCertificate handles GET /api/tools/{id}/download-certificate
func (h *Handler) DownloadCertificate(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Service.OpenCertificate)
}

// DownloadManual handles GET /api/tools/{id}/download-manual
func (h *Handler) DownloadManual(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Service.OpenManual)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, open func(context.Context, string) (*Download, error)) {
	dl, err := open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer dl.Content.Close()
	h.WriteAttachment(w, dl.Filename, dl.Content)
}

// Barcode handles GET /api/tools/{id}/barcode
func (h *Handler) Barcode(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Barcode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteBytes(w, doc.ContentType, doc.Filename, doc.Data)
}

// ExportExcel handles GET /api/tools/export/excel
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Export(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteBytes(w, doc.ContentType, doc.Filename, doc.Data)
}
