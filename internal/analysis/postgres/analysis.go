package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/asset-tracking/internal/analysis"
	"github.com/jmoiron/sqlx"
)

// AnalysisRepository runs the read-only aggregate queries. Placeholders are
// written as ? and rebound for the connected driver.
type AnalysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

type loanEquipment struct {
	EquipmentName string `json:"equipment_name"`
}

// LoanEquipmentNames returns the equipment names of up to limit loans in
// creation order, one entry per lent equipment.
func (r *AnalysisRepository) LoanEquipmentNames(ctx context.Context, limit int) ([]string, error) {
	var raw []string
	query := r.db.Rebind(`SELECT equipments FROM loans ORDER BY created_at ASC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	var names []string
	for _, doc := range raw {
		if doc == "" {
			continue
		}
		var equipments []loanEquipment
		if err := json.Unmarshal([]byte(doc), &equipments); err != nil {
			return nil, fmt.Errorf("decode loan equipments: %w", err)
		}
		for _, e := range equipments {
			names = append(names, e.EquipmentName)
		}
	}
	return names, nil
}

// DamagedByName groups tools in the given condition by equipment name.
func (r *AnalysisRepository) DamagedByName(ctx context.Context, condition string) ([]analysis.LabelCount, error) {
	return r.countBy(ctx, `
		SELECT equipment_name AS label, COUNT(*) AS count
		FROM tools WHERE "condition" = ?
		GROUP BY equipment_name
		ORDER BY count DESC, label ASC`, condition)
}

// DamagedByBrand groups tools in the given condition by brand.
func (r *AnalysisRepository) DamagedByBrand(ctx context.Context, condition string) ([]analysis.LabelCount, error) {
	return r.countBy(ctx, `
		SELECT brand_type AS label, COUNT(*) AS count
		FROM tools WHERE "condition" = ?
		GROUP BY brand_type
		ORDER BY count DESC, label ASC`, condition)
}

func (r *AnalysisRepository) StockByBrand(ctx context.Context, limit int) ([]analysis.LabelCount, error) {
	return r.countBy(ctx, `
		SELECT brand_specifications AS label, COUNT(*) AS count
		FROM stock_items
		GROUP BY brand_specifications
		ORDER BY count DESC, label ASC
		LIMIT ?`, limit)
}

func (r *AnalysisRepository) StockByItem(ctx context.Context, limit int) ([]analysis.LabelCount, error) {
	return r.countBy(ctx, `
		SELECT item_name AS label, COUNT(*) AS count
		FROM stock_items
		GROUP BY item_name
		ORDER BY count DESC, label ASC
		LIMIT ?`, limit)
}

func (r *AnalysisRepository) countBy(ctx context.Context, query string, args ...interface{}) ([]analysis.LabelCount, error) {
	rows := []analysis.LabelCount{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalysisRepository) ToolCalibrations(ctx context.Context, limit int) ([]analysis.ToolCalibration, error) {
	rows := []analysis.ToolCalibration{}
	query := r.db.Rebind(`
		SELECT equipment_name, serial_no, brand_type, equipment_location,
		       calibration_date, calibration_validity_months
		FROM tools
		ORDER BY created_at ASC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStock lists items below threshold, lowest quantity first.
func (r *AnalysisRepository) LowStock(ctx context.Context, threshold int) ([]analysis.LowStockItem, error) {
	rows := []analysis.LowStockItem{}
	query := r.db.Rebind(`
		SELECT item_name, brand_specifications, available_quantity, unit
		FROM stock_items
		WHERE available_quantity < ?
		ORDER BY available_quantity ASC, item_name ASC`)
	if err := r.db.SelectContext(ctx, &rows, query, threshold); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalysisRepository) Totals(ctx context.Context, damaged, good string, lowStockThreshold int) (*analysis.Totals, error) {
	var t analysis.Totals
	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM tools) AS total_tools,
			(SELECT COUNT(*) FROM tools WHERE "condition" = ?) AS damaged_tools,
			(SELECT COUNT(*) FROM tools WHERE "condition" = ?) AS good_tools,
			(SELECT COUNT(*) FROM loans) AS total_loans,
			(SELECT COUNT(*) FROM stock_items) AS total_stock_items,
			(SELECT COUNT(*) FROM stock_items WHERE available_quantity < ?) AS low_stock_items`)
	if err := r.db.GetContext(ctx, &t, query, damaged, good, lowStockThreshold); err != nil {
		return nil, err
	}
	return &t, nil
}
