package postgres

import (
	"context"
	"errors"
	"time"

	toolDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/tool"
	"gorm.io/gorm"
)

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

func (r *ToolRepository) List(ctx context.Context, limit int) ([]*toolDatamodel.Tool, error) {
	var tools []*toolDatamodel.Tool
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&tools).Error
	return tools, err
}

func (r *ToolRepository) GetByID(ctx context.Context, id string) (*toolDatamodel.Tool, error) {
	var t toolDatamodel.Tool
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ToolRepository) Create(ctx context.Context, t *toolDatamodel.Tool) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Update writes every column except id and created_at, nulls included.
func (r *ToolRepository) Update(ctx context.Context, t *toolDatamodel.Tool) error {
	return r.db.WithContext(ctx).
		Model(&toolDatamodel.Tool{}).
		Where("id = ?", t.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(t).Error
}

func (r *ToolRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&toolDatamodel.Tool{})
	return res.RowsAffected, res.Error
}

func (r *ToolRepository) UpdateColumns(ctx context.Context, id string, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&toolDatamodel.Tool{}).
		Where("id = ?", id).
		Updates(values).Error
}

// UpdateCalibrationDateBySerial touches every tool with the serial number,
// since serial numbers are not unique.
func (r *ToolRepository) UpdateCalibrationDateBySerial(ctx context.Context, serialNo, calibrationDate string, updatedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&toolDatamodel.Tool{}).
		Where("serial_no = ?", serialNo).
		Updates(map[string]interface{}{
			"calibration_date": calibrationDate,
			"updated_at":       updatedAt,
		})
	return res.RowsAffected, res.Error
}
