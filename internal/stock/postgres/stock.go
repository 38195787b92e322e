package postgres

import (
	"context"
	"errors"
	"time"

	stockDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/stock"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) List(ctx context.Context, limit int) ([]*stockDatamodel.StockItem, error) {
	var items []*stockDatamodel.StockItem
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *StockRepository) GetByID(ctx context.Context, id string) (*stockDatamodel.StockItem, error) {
	var s stockDatamodel.StockItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *StockRepository) Create(ctx context.Context, s *stockDatamodel.StockItem) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *StockRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&stockDatamodel.StockItem{})
	return res.RowsAffected, res.Error
}

func (r *StockRepository) UpdateColumns(ctx context.Context, id string, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&stockDatamodel.StockItem{}).
		Where("id = ?", id).
		Updates(values).Error
}

// Adjust writes values and adds delta to available_quantity in one statement.
// No row is touched when the result would go below zero, so zero rows
// affected means either an unknown id or a rejected delta.
func (r *StockRepository) Adjust(ctx context.Context, id string, delta int, values map[string]interface{}, updatedAt time.Time) (int64, error) {
	changes := make(map[string]interface{}, len(values)+2)
	for k, v := range values {
		changes[k] = v
	}
	changes["available_quantity"] = gorm.Expr("available_quantity + ?", delta)
	changes["updated_at"] = updatedAt

	res := r.db.WithContext(ctx).
		Model(&stockDatamodel.StockItem{}).
		Where("id = ? AND available_quantity + ? >= 0", id, delta).
		Updates(changes)
	return res.RowsAffected, res.Error
}

// CompareAndSetQuantity sets available_quantity only while it still equals
// expected.
func (r *StockRepository) CompareAndSetQuantity(ctx context.Context, id string, expected, quantity int, updatedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&stockDatamodel.StockItem{}).
		Where("id = ? AND available_quantity = ?", id, expected).
		Updates(map[string]interface{}{
			"available_quantity": quantity,
			"updated_at":         updatedAt,
		})
	return res.RowsAffected, res.Error
}
