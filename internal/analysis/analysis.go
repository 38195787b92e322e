package analysis

// TopN caps the usage and purchase rankings.
const TopN = 10

type ToolUsage struct {
	EquipmentName string `json:"equipment_name"`
	UsageCount    int    `json:"usage_count"`
}

// LabelCount is one group of a GROUP BY count.
type LabelCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

type ItemCount struct {
	ItemName string `json:"item_name"`
	Count    int    `json:"count"`
}

type DamagedTools struct {
	ByType       []TypeCount  `json:"by_type"`
	ByBrand      []BrandCount `json:"by_brand"`
	TotalDamaged int          `json:"total_damaged"`
}

// ToolCalibration is the part of a tool needed to derive its status.
type ToolCalibration struct {
	EquipmentName             string  `db:"equipment_name"`
	SerialNo                  string  `db:"serial_no"`
	BrandType                 string  `db:"brand_type"`
	EquipmentLocation         string  `db:"equipment_location"`
	CalibrationDate           *string `db:"calibration_date"`
	CalibrationValidityMonths int     `db:"calibration_validity_months"`
}

type LostTool struct {
	EquipmentName string `json:"equipment_name"`
	SerialNo      string `json:"serial_no"`
	BrandType     string `json:"brand_type"`
	Location      string `json:"location"`
}

type LostTools struct {
	PotentialLost []LostTool `json:"potential_lost"`
	Total         int        `json:"total"`
}

type LowStockItem struct {
	ItemName            string `db:"item_name" json:"item_name"`
	BrandSpecifications string `db:"brand_specifications" json:"brand_specifications"`
	AvailableQuantity   int    `db:"available_quantity" json:"available_quantity"`
	Unit                string `db:"unit" json:"unit"`
}

type StockRequested struct {
	FrequentlyRequested []LowStockItem `json:"frequently_requested"`
	TotalLowStock       int            `json:"total_low_stock"`
}

type StockPurchased struct {
	ByBrand    []BrandCount `json:"by_brand"`
	ByItem     []ItemCount  `json:"by_item"`
	TotalItems int          `json:"total_items"`
}

// Totals are the raw counters behind Summary.
type Totals struct {
	TotalTools      int `db:"total_tools"`
	DamagedTools    int `db:"damaged_tools"`
	GoodTools       int `db:"good_tools"`
	TotalLoans      int `db:"total_loans"`
	TotalStockItems int `db:"total_stock_items"`
	LowStockItems   int `db:"low_stock_items"`
}

type Summary struct {
	TotalTools      int     `json:"total_tools"`
	DamagedTools    int     `json:"damaged_tools"`
	GoodTools       int     `json:"good_tools"`
	DamageRate      float64 `json:"damage_rate"`
	TotalLoans      int     `json:"total_loans"`
	TotalStockItems int     `json:"total_stock_items"`
	LowStockItems   int     `json:"low_stock_items"`
	LowStockRate    float64 `json:"low_stock_rate"`
}
