package calibration

import (
	"time"

	calibrationDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/calibration"
)

type Calibration struct {
	ID                    string    `json:"id"`
	DeviceName            string    `json:"device_name"`
	SerialNo              string    `json:"serial_no"`
	CalibrationDate       string    `json:"calibration_date"`
	CalibrationExpiryDate string    `json:"calibration_expiry_date"`
	DeviceCondition       string    `json:"device_condition"`
	CalibrationAgency     string    `json:"calibration_agency"`
	CalibrationLocation   string    `json:"calibration_location"`
	PersonName            string    `json:"person_name"`
	CreatedAt             time.Time `json:"created_at"`
	CreatedBy             string    `json:"created_by"`
}

func ToDataModel(c *Calibration) *calibrationDatamodel.Calibration {
	return &calibrationDatamodel.Calibration{
		ID:                    c.ID,
		DeviceName:            c.DeviceName,
		SerialNo:              c.SerialNo,
		CalibrationDate:       c.CalibrationDate,
		CalibrationExpiryDate: c.CalibrationExpiryDate,
		DeviceCondition:       c.DeviceCondition,
		CalibrationAgency:     c.CalibrationAgency,
		CalibrationLocation:   c.CalibrationLocation,
		PersonName:            c.PersonName,
		CreatedAt:             c.CreatedAt,
		CreatedBy:             c.CreatedBy,
	}
}

func FromDataModel(c *calibrationDatamodel.Calibration) *Calibration {
	return &Calibration{
		ID:                    c.ID,
		DeviceName:            c.DeviceName,
		SerialNo:              c.SerialNo,
		CalibrationDate:       c.CalibrationDate,
		CalibrationExpiryDate: c.CalibrationExpiryDate,
		DeviceCondition:       c.DeviceCondition,
		CalibrationAgency:     c.CalibrationAgency,
		CalibrationLocation:   c.CalibrationLocation,
		PersonName:            c.PersonName,
		CreatedAt:             c.CreatedAt,
		CreatedBy:             c.CreatedBy,
	}
}
