package tool

// ToolDTO is the body of both create and update. Update is a full replace,
// so omitted optional fields are cleared.
type ToolDTO struct {
	EquipmentName             string  `json:"equipment_name" validate:"required"`
	BrandType                 string  `json:"brand_type" validate:"required"`
	SerialNo                  string  `json:"serial_no" validate:"required"`
	InventoryCode             string  `json:"inventory_code" validate:"required"`
	PeriodicInspectionDate    *string `json:"periodic_inspection_date"`
	CalibrationDate           *string `json:"calibration_date"`
	CalibrationValidityMonths *int    `json:"calibration_validity_months" validate:"omitempty,min=0"`
	Condition                 string  `json:"condition" validate:"required,oneof=Good Damaged"`
	Description               *string `json:"description"`
	EquipmentLocation         string  `json:"equipment_location" validate:"required"`
}

// ValidityMonths falls back to 12 when the field was omitted.
func (d ToolDTO) ValidityMonths() int {
	if d.CalibrationValidityMonths == nil {
		return DefaultValidityMonths
	}
	return *d.CalibrationValidityMonths
}

type ToolResponse struct {
	ID                        string  `json:"id"`
	EquipmentName             string  `json:"equipment_name"`
	BrandType                 string  `json:"brand_type"`
	SerialNo                  string  `json:"serial_no"`
	InventoryCode             string  `json:"inventory_code"`
	PeriodicInspectionDate    *string `json:"periodic_inspection_date"`
	CalibrationDate           *string `json:"calibration_date"`
	CalibrationValidityMonths int     `json:"calibration_validity_months"`
	CalibrationExpiryDate     *string `json:"calibration_expiry_date"`
	Status                    string  `json:"status"`
	Condition                 string  `json:"condition"`
	Description               *string `json:"description"`
	EquipmentLocation         string  `json:"equipment_location"`
	CalibrationCertificate    *string `json:"calibration_certificate"`
	EquipmentManual           *string `json:"equipment_manual"`
}

// UploadResponse is returned after an attachment upload.
type UploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}
