package calibration

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/core/common/validation"
	calibrationDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/calibration"
	"github.com/frahmantamala/asset-tracking/internal/core/events"
	"github.com/google/uuid"
)

const ListLimit = 1000

type Repository interface {
	List(ctx context.Context, limit int) ([]*calibrationDatamodel.Calibration, error)
	Create(ctx context.Context, c *calibrationDatamodel.Calibration) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]*Calibration, error) {
	rows, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		s.logger.Error("failed to list calibrations", "error", err)
		return nil, internal.NewInternalError("failed to list calibrations", err)
	}

	out := make([]*Calibration, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// Create stores the record and then brings matching tools up to date. The
// second step runs after the insert and its failure does not undo it.
func (s *Service) Create(ctx context.Context, dto CalibrationDTO, actor string) (*Calibration, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c := &Calibration{
		ID:                    uuid.NewString(),
		DeviceName:            dto.DeviceName,
		SerialNo:              dto.SerialNo,
		CalibrationDate:       dto.CalibrationDate,
		CalibrationExpiryDate: dto.CalibrationExpiryDate,
		DeviceCondition:       dto.DeviceCondition,
		CalibrationAgency:     dto.CalibrationAgency,
		CalibrationLocation:   dto.CalibrationLocation,
		PersonName:            dto.PersonName,
		CreatedAt:             s.now(),
		CreatedBy:             actor,
	}

	if err := s.repo.Create(ctx, ToDataModel(c)); err != nil {
		s.logger.Error("failed to create calibration", "error", err, "serial_no", c.SerialNo)
		return nil, internal.NewInternalError("failed to create calibration", err)
	}

	s.logger.Info("calibration recorded",
		"calibration_id", c.ID,
		"serial_no", c.SerialNo,
		"calibration_date", c.CalibrationDate,
		"created_by", actor)

	event := events.NewCalibrationRecordedEvent(c.ID, c.SerialNo, c.CalibrationDate, actor)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("calibration stored but tool update failed",
			"calibration_id", c.ID,
			"serial_no", c.SerialNo,
			"error", err)
	}

	return c, nil
}

// Replay publishes every stored calibration again, oldest first, so the tool
// registry ends with the latest date per serial. It stops at the first
// failing subscriber and reports how many were published before it.
func (s *Service) Replay(ctx context.Context) (int, error) {
	rows, err := s.repo.List(ctx, 0)
	if err != nil {
		return 0, internal.NewInternalError("failed to list calibrations", err)
	}

	for i, row := range rows {
		event := events.NewCalibrationRecordedEvent(row.ID, row.SerialNo, row.CalibrationDate, row.CreatedBy)
		if err := s.publisher.PublishSync(ctx, event); err != nil {
			s.logger.Error("calibration replay stopped", "calibration_id", row.ID, "error", err)
			return i, err
		}
	}

	s.logger.Info("calibrations replayed", "count", len(rows))
	return len(rows), nil
}
