package calibration

type CalibrationDTO struct {
	DeviceName            string `json:"device_name" validate:"required"`
	SerialNo              string `json:"serial_no" validate:"required"`
	CalibrationDate       string `json:"calibration_date" validate:"required"`
	CalibrationExpiryDate string `json:"calibration_expiry_date" validate:"required"`
	DeviceCondition       string `json:"device_condition"`
	CalibrationAgency     string `json:"calibration_agency"`
	CalibrationLocation   string `json:"calibration_location"`
	PersonName            string `json:"person_name"`
}
