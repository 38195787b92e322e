package tool

import "time"

type Tool struct {
	ID                        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	EquipmentName             string    `gorm:"column:equipment_name;size:200;not null"`
	BrandType                 string    `gorm:"column:brand_type;size:200;not null"`
	SerialNo                  string    `gorm:"column:serial_no;size:120;index;not null"`
	InventoryCode             string    `gorm:"column:inventory_code;size:120;not null"`
	PeriodicInspectionDate    *string   `gorm:"column:periodic_inspection_date;size:40"`
	CalibrationDate           *string   `gorm:"column:calibration_date;size:40"`
	CalibrationValidityMonths int       `gorm:"column:calibration_validity_months;not null;default:12"`
	Condition                 string    `gorm:"column:condition;size:20;not null"`
	Description               *string   `gorm:"column:description"`
	EquipmentLocation         string    `gorm:"column:equipment_location;size:200;not null"`
	CalibrationCertificate    *string   `gorm:"column:calibration_certificate"`
	EquipmentManual           *string   `gorm:"column:equipment_manual"`
	CreatedAt                 time.Time `gorm:"column:created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at"`
}

func (Tool) TableName() string {
	return "tools"
}
