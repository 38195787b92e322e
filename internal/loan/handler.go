package loan

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Loan, error)
	Create(ctx context.Context, dto LoanDTO, actor string) (*Loan, error)
	Form(ctx context.Context, id string) (*report.Document, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListLoans handles GET /api/loans
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, loans)
}

// CreateLoan handles POST /api/loans
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var dto LoanDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	l, err := h.Service.Create(r.Context(), dto, user.Username)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

// LoanPDF handles GET /api/loans/{id}/pdf
func (h *Handler) LoanPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Form(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteBytes(w, doc.ContentType, doc.Filename, doc.Data)
}
