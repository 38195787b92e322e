package postgres

import (
	"context"

	calibrationDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/calibration"
	"gorm.io/gorm"
)

type CalibrationRepository struct {
	db *gorm.DB
}

func NewCalibrationRepository(db *gorm.DB) *CalibrationRepository {
	return &CalibrationRepository{db: db}
}

func (r *CalibrationRepository) List(ctx context.Context, limit int) ([]*calibrationDatamodel.Calibration, error) {
	var list []*calibrationDatamodel.Calibration
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *CalibrationRepository) Create(ctx context.Context, c *calibrationDatamodel.Calibration) error {
	return r.db.WithContext(ctx).Create(c).Error
}
