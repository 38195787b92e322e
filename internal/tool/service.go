package tool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/core/common/validation"
	toolDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/tool"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/google/uuid"
)

// ListLimit caps how many tools list and export return.
const ListLimit = 1000

// Repository returns (nil, nil) from GetByID when no row matches.
type Repository interface {
	List(ctx context.Context, limit int) ([]*toolDatamodel.Tool, error)
	GetByID(ctx context.Context, id string) (*toolDatamodel.Tool, error)
	Create(ctx context.Context, t *toolDatamodel.Tool) error
	Update(ctx context.Context, t *toolDatamodel.Tool) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdateColumns(ctx context.Context, id string, values map[string]interface{}) error
	UpdateCalibrationDateBySerial(ctx context.Context, serialNo, calibrationDate string, updatedAt time.Time) (int64, error)
}

type Reporter interface {
	ToolStatusWorkbook(rows []report.ToolRow) ([]byte, error)
	ToolLabel(label report.ToolLabel) ([]byte, error)
}

// Download is an opened attachment. The caller closes Content.
type Download struct {
	Filename string
	Content  io.ReadCloser
}

type Service struct {
	repo     Repository
	store    attachment.Storage
	reporter Reporter
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, store attachment.Storage, reporter Reporter, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		reporter: reporter,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source used for timestamps and status.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]ToolResponse, error) {
	rows, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		s.logger.Error("failed to list tools", "error", err)
		return nil, internal.NewInternalError("failed to list tools", err)
	}

	now := s.now()
	responses := make([]ToolResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse(now))
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Tool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get tool", "error", err, "tool_id", id)
		return nil, internal.NewInternalError("failed to get tool", err)
	}
	if row == nil {
		return nil, internal.ErrToolNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto ToolDTO) (ToolResponse, error) {
	if err := validation.Struct(dto); err != nil {
		return ToolResponse{}, err
	}

	now := s.now()
	t := &Tool{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	t.Apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(t)); err != nil {
		s.logger.Error("failed to create tool", "error", err, "serial_no", t.SerialNo)
		return ToolResponse{}, internal.NewInternalError("failed to create tool", err)
	}

	s.logger.Info("tool created", "tool_id", t.ID, "serial_no", t.SerialNo, "equipment_name", t.EquipmentName)
	return t.ToResponse(now), nil
}

// Update replaces every mutable field and refreshes updated_at.
func (s *Service) Update(ctx context.Context, id string, dto ToolDTO) (ToolResponse, error) {
	if err := validation.Struct(dto); err != nil {
		return ToolResponse{}, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return ToolResponse{}, err
	}

	now := s.now()
	t.Apply(dto)
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, ToDataModel(t)); err != nil {
		s.logger.Error("failed to update tool", "error", err, "tool_id", id)
		return ToolResponse{}, internal.NewInternalError("failed to update tool", err)
	}

	s.logger.Info("tool updated", "tool_id", id, "serial_no", t.SerialNo)
	return t.ToResponse(now), nil
}

// Delete removes the tool and then its attachments. A file that cannot be
// removed is logged and does not fail the call.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete tool", "error", err, "tool_id", id)
		return internal.NewInternalError("failed to delete tool", err)
	}
	if affected == 0 {
		return internal.ErrToolNotFound
	}

	for _, p := range []*string{t.CalibrationCertificate, t.EquipmentManual} {
		s.removeFile(p, "tool_id", id)
	}

	s.logger.Info("tool deleted", "tool_id", id, "serial_no", t.SerialNo)
	return nil
}

func (s *Service) UploadCertificate(ctx context.Context, id, filename string, content io.Reader) (string, error) {
	return s.upload(ctx, id, attachment.KindCertificate, "calibration_certificate", filename, content)
}

func (s *Service) UploadManual(ctx context.Context, id, filename string, content io.Reader) (string, error) {
	return s.upload(ctx, id, attachment.KindManual, "equipment_manual", filename, content)
}

func (s *Service) upload(ctx context.Context, id string, kind attachment.Kind, column, filename string, content io.Reader) (string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	rel, err := s.store.Save(kind, id, filename, content)
	if err != nil {
		s.logger.Error("failed to store attachment", "error", err, "tool_id", id, "kind", kind)
		return "", internal.NewInternalError("failed to store file", err)
	}

	previous := t.CalibrationCertificate
	if kind == attachment.KindManual {
		previous = t.EquipmentManual
	}

	if err := s.repo.UpdateColumns(ctx, id, map[string]interface{}{
		column:       rel,
		"updated_at": s.now(),
	}); err != nil {
		s.logger.Error("failed to record attachment", "error", err, "tool_id", id, "kind", kind)
		return "", internal.NewInternalError("failed to record file", err)
	}

	if previous != nil && *previous != rel {
		s.removeFile(previous, "tool_id", id)
	}

	s.logger.Info("tool attachment uploaded", "tool_id", id, "kind", kind, "path", rel)
	return rel, nil
}

func (s *Service) OpenCertificate(ctx context.Context, id string) (*Download, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get tool", err)
	}
	if t == nil || t.CalibrationCertificate == nil || *t.CalibrationCertificate == "" {
		return nil, internal.ErrCertificateNotFound
	}
	return s.open(*t.CalibrationCertificate, t.EquipmentName, attachment.KindCertificate)
}

func (s *Service) OpenManual(ctx context.Context, id string) (*Download, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get tool", err)
	}
	if t == nil || t.EquipmentManual == nil || *t.EquipmentManual == "" {
		return nil, internal.ErrManualNotFound
	}
	return s.open(*t.EquipmentManual, t.EquipmentName, attachment.KindManual)
}

func (s *Service) open(rel, equipmentName string, kind attachment.Kind) (*Download, error) {
	f, err := s.store.Open(rel)
	if err != nil {
		s.logger.Warn("attachment missing on disk", "path", rel, "error", err)
		return nil, err
	}
	return &Download{
		Filename: fmt.Sprintf("%s_%s%s", equipmentName, kind, filepath.Ext(rel)),
		Content:  f,
	}, nil
}

// Barcode renders the QR identity label of a tool.
func (s *Service) Barcode(ctx context.Context, id string) (*report.Document, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status, expiry := t.Status(s.now())
	label := report.ToolLabel{
		EquipmentName: t.EquipmentName,
		SerialNo:      t.SerialNo,
		Status:        status,
	}
	if expiry != nil {
		label.ExpiryDate = *expiry
	}

	data, err := s.reporter.ToolLabel(label)
	if err != nil {
		s.logger.Error("failed to render tool label", "error", err, "tool_id", id)
		return nil, internal.NewInternalError("failed to render label", err)
	}
	return &report.Document{
		Filename:    fmt.Sprintf("qrcode_%s.png", t.SerialNo),
		ContentType: report.ContentTypePNG,
		Data:        data,
	}, nil
}

// Export renders the status of up to ListLimit tools as a spreadsheet.
func (s *Service) Export(ctx context.Context) (*report.Document, error) {
	tools, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]report.ToolRow, 0, len(tools))
	for _, t := range tools {
		rows = append(rows, report.ToolRow{
			EquipmentName:          t.EquipmentName,
			BrandType:              t.BrandType,
			SerialNo:               t.SerialNo,
			InventoryCode:          t.InventoryCode,
			PeriodicInspectionDate: deref(t.PeriodicInspectionDate),
			CalibrationDate:        deref(t.CalibrationDate),
			CalibrationExpiryDate:  deref(t.CalibrationExpiryDate),
			Status:                 t.Status,
			Condition:              t.Condition,
			Description:            deref(t.Description),
			EquipmentLocation:      t.EquipmentLocation,
		})
	}

	data, err := s.reporter.ToolStatusWorkbook(rows)
	if err != nil {
		s.logger.Error("failed to render tool export", "error", err)
		return nil, internal.NewInternalError("failed to render export", err)
	}

	s.logger.Info("tool status exported", "rows", len(rows))
	return &report.Document{
		Filename:    "tool_status.xlsx",
		ContentType: report.ContentTypeXLSX,
		Data:        data,
	}, nil
}

// SyncCalibration sets calibration_date on every tool with serialNo and
// reports how many were changed.
func (s *Service) SyncCalibration(ctx context.Context, serialNo, calibrationDate string) (int64, error) {
	affected, err := s.repo.UpdateCalibrationDateBySerial(ctx, serialNo, calibrationDate, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to update calibration date for serial %s: %w", serialNo, err)
	}

	switch {
	case affected == 0:
		s.logger.Info("no tool matches calibrated serial", "serial_no", serialNo)
	case affected > 1:
		s.logger.Warn("serial number shared by several tools, all updated", "serial_no", serialNo, "tools", affected)
	default:
		s.logger.Info("tool calibration date updated", "serial_no", serialNo, "calibration_date", calibrationDate)
	}
	return affected, nil
}

func (s *Service) removeFile(p *string, attrs ...any) {
	if p == nil || *p == "" {
		return
	}
	if err := s.store.Delete(*p); err != nil {
		s.logger.Warn("failed to delete attachment", append(attrs, "path", *p, "error", err)...)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
