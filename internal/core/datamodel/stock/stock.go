package stock

import "time"

type StockItem struct {
	ID                  string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ItemName            string    `gorm:"column:item_name;size:200;not null"`
	BrandSpecifications string    `gorm:"column:brand_specifications;size:200;not null"`
	AvailableQuantity   int       `gorm:"column:available_quantity;not null;default:0"`
	Unit                string    `gorm:"column:unit;size:40;not null"`
	Description         *string   `gorm:"column:description"`
	PurchaseReceipt     *string   `gorm:"column:purchase_receipt"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (StockItem) TableName() string {
	return "stock_items"
}
