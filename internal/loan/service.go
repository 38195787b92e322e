package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/core/common/validation"
	loanDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/loan"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/google/uuid"
)

const ListLimit = 1000

// Repository returns (nil, nil) from GetByID when no row matches.
type Repository interface {
	List(ctx context.Context, limit int) ([]*loanDatamodel.Loan, error)
	GetByID(ctx context.Context, id string) (*loanDatamodel.Loan, error)
	Create(ctx context.Context, l *loanDatamodel.Loan) error
}

type FormRenderer interface {
	LoanForm(form report.LoanForm) ([]byte, error)
}

type Service struct {
	repo     Repository
	renderer FormRenderer
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, renderer FormRenderer, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		renderer: renderer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]*Loan, error) {
	rows, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		s.logger.Error("failed to list loans", "error", err)
		return nil, internal.NewInternalError("failed to list loans", err)
	}

	out := make([]*Loan, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// Create records a loan. Equipment entries are not checked against the
// registry and a loan may carry none.
func (s *Service) Create(ctx context.Context, dto LoanDTO, actor string) (*Loan, error) {
	if len(dto.Equipments) > MaxEquipments {
		s.logger.Warn("loan rejected: too many equipments", "count", len(dto.Equipments), "borrower", dto.BorrowerName)
		return nil, internal.ErrTooManyEquipments
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	equipments := dto.Equipments
	if equipments == nil {
		equipments = []Equipment{}
	}

	l := &Loan{
		ID:              uuid.NewString(),
		BorrowerName:    dto.BorrowerName,
		LoanDate:        dto.LoanDate,
		ReturnDate:      dto.ReturnDate,
		Equipments:      equipments,
		ProjectName:     dto.ProjectName,
		WBSProjectNo:    dto.WBSProjectNo,
		ProjectLocation: dto.ProjectLocation,
		CreatedAt:       s.now(),
		CreatedBy:       actor,
	}

	if err := s.repo.Create(ctx, ToDataModel(l)); err != nil {
		s.logger.Error("failed to create loan", "error", err, "borrower", l.BorrowerName)
		return nil, internal.NewInternalError("failed to create loan", err)
	}

	s.logger.Info("loan created",
		"loan_id", l.ID,
		"borrower", l.BorrowerName,
		"equipments", len(l.Equipments),
		"created_by", actor)
	return l, nil
}

// Form renders the printable loan form.
func (s *Service) Form(ctx context.Context, id string) (*report.Document, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get loan", "error", err, "loan_id", id)
		return nil, internal.NewInternalError("failed to get loan", err)
	}
	if row == nil {
		return nil, internal.ErrLoanNotFound
	}
	l := FromDataModel(row)

	form := report.LoanForm{
		BorrowerName:    l.BorrowerName,
		LoanDate:        l.LoanDate,
		ReturnDate:      l.ReturnDate,
		ProjectName:     l.ProjectName,
		WBSProjectNo:    l.WBSProjectNo,
		ProjectLocation: l.ProjectLocation,
	}
	for _, e := range l.Equipments {
		form.Equipments = append(form.Equipments, report.LoanFormEquipment{
			EquipmentName: e.EquipmentName,
			SerialNo:      e.SerialNo,
			Condition:     e.Condition,
		})
	}

	data, err := s.renderer.LoanForm(form)
	if err != nil {
		s.logger.Error("failed to render loan form", "error", err, "loan_id", id)
		return nil, internal.NewInternalError("failed to render loan form", err)
	}
	return &report.Document{
		Filename:    fmt.Sprintf("loan_%s.pdf", l.ID),
		ContentType: report.ContentTypePDF,
		Data:        data,
	}, nil
}
