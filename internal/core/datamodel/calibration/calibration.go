package calibration

import "time"

type Calibration struct {
	ID                    string    `gorm:"column:id;type:varchar(36);primaryKey"`
	DeviceName            string    `gorm:"column:device_name;size:200;not null"`
	SerialNo              string    `gorm:"column:serial_no;size:120;index;not null"`
	CalibrationDate       string    `gorm:"column:calibration_date;size:40;not null"`
	CalibrationExpiryDate string    `gorm:"column:calibration_expiry_date;size:40;not null"`
	DeviceCondition       string    `gorm:"column:device_condition;size:100"`
	CalibrationAgency     string    `gorm:"column:calibration_agency;size:200"`
	CalibrationLocation   string    `gorm:"column:calibration_location;size:200"`
	PersonName            string    `gorm:"column:person_name;size:200"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	CreatedBy             string    `gorm:"column:created_by;size:100;not null"`
}

func (Calibration) TableName() string {
	return "calibrations"
}
