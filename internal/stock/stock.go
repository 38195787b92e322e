package stock

import (
	"time"

	stockDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/stock"
)

// LowStockThreshold marks items with fewer units as running low.
const LowStockThreshold = 50

type StockItem struct {
	ID                  string    `json:"id"`
	ItemName            string    `json:"item_name"`
	BrandSpecifications string    `json:"brand_specifications"`
	AvailableQuantity   int       `json:"available_quantity"`
	Unit                string    `json:"unit"`
	Description         *string   `json:"description"`
	PurchaseReceipt     *string   `json:"purchase_receipt"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (s *StockItem) IsLow() bool {
	return s.AvailableQuantity < LowStockThreshold
}

func ToDataModel(s *StockItem) *stockDatamodel.StockItem {
	return &stockDatamodel.StockItem{
		ID:                  s.ID,
		ItemName:            s.ItemName,
		BrandSpecifications: s.BrandSpecifications,
		AvailableQuantity:   s.AvailableQuantity,
		Unit:                s.Unit,
		Description:         s.Description,
		PurchaseReceipt:     s.PurchaseReceipt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func FromDataModel(s *stockDatamodel.StockItem) *StockItem {
	return &StockItem{
		ID:                  s.ID,
		ItemName:            s.ItemName,
		BrandSpecifications: s.BrandSpecifications,
		AvailableQuantity:   s.AvailableQuantity,
		Unit:                s.Unit,
		Description:         s.Description,
		PurchaseReceipt:     s.PurchaseReceipt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
