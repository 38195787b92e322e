package tool

import (
	"time"

	toolDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/tool"
)

const (
	ConditionGood    = "Good"
	ConditionDamaged = "Damaged"
)

type Tool struct {
	ID                        string    `json:"id"`
	EquipmentName             string    `json:"equipment_name"`
	BrandType                 string    `json:"brand_type"`
	SerialNo                  string    `json:"serial_no"`
	InventoryCode             string    `json:"inventory_code"`
	PeriodicInspectionDate    *string   `json:"periodic_inspection_date"`
	CalibrationDate           *string   `json:"calibration_date"`
	CalibrationValidityMonths int       `json:"calibration_validity_months"`
	Condition                 string    `json:"condition"`
	Description               *string   `json:"description"`
	EquipmentLocation         string    `json:"equipment_location"`
	CalibrationCertificate    *string   `json:"calibration_certificate"`
	EquipmentManual           *string   `json:"equipment_manual"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// Status derives the calibration status at now. It is never stored.
func (t *Tool) Status(now time.Time) (string, *string) {
	return ComputeStatus(t.CalibrationDate, t.CalibrationValidityMonths, now)
}

func (t *Tool) ToResponse(now time.Time) ToolResponse {
	status, expiry := t.Status(now)
	return ToolResponse{
		ID:                        t.ID,
		EquipmentName:             t.EquipmentName,
		BrandType:                 t.BrandType,
		SerialNo:                  t.SerialNo,
		InventoryCode:             t.InventoryCode,
		PeriodicInspectionDate:    t.PeriodicInspectionDate,
		CalibrationDate:           t.CalibrationDate,
		CalibrationValidityMonths: t.CalibrationValidityMonths,
		CalibrationExpiryDate:     expiry,
		Status:                    status,
		Condition:                 t.Condition,
		Description:               t.Description,
		EquipmentLocation:         t.EquipmentLocation,
		CalibrationCertificate:    t.CalibrationCertificate,
		EquipmentManual:           t.EquipmentManual,
	}
}

// Apply replaces every mutable field with the values in dto. Attachments
// and timestamps are left alone.
func (t *Tool) Apply(dto ToolDTO) {
	t.EquipmentName = dto.EquipmentName
	t.BrandType = dto.BrandType
	t.SerialNo = dto.SerialNo
	t.InventoryCode = dto.InventoryCode
	t.PeriodicInspectionDate = blankToNil(dto.PeriodicInspectionDate)
	t.CalibrationDate = blankToNil(dto.CalibrationDate)
	t.CalibrationValidityMonths = dto.ValidityMonths()
	t.Condition = dto.Condition
	t.Description = dto.Description
	t.EquipmentLocation = dto.EquipmentLocation
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func ToDataModel(t *Tool) *toolDatamodel.Tool {
	return &toolDatamodel.Tool{
		ID:                        t.ID,
		EquipmentName:             t.EquipmentName,
		BrandType:                 t.BrandType,
		SerialNo:                  t.SerialNo,
		InventoryCode:             t.InventoryCode,
		PeriodicInspectionDate:    t.PeriodicInspectionDate,
		CalibrationDate:           t.CalibrationDate,
		CalibrationValidityMonths: t.CalibrationValidityMonths,
		Condition:                 t.Condition,
		Description:               t.Description,
		EquipmentLocation:         t.EquipmentLocation,
		CalibrationCertificate:    t.CalibrationCertificate,
		EquipmentManual:           t.EquipmentManual,
		CreatedAt:                 t.CreatedAt,
		UpdatedAt:                 t.UpdatedAt,
	}
}

func FromDataModel(t *toolDatamodel.Tool) *Tool {
	return &Tool{
		ID:                        t.ID,
		EquipmentName:             t.EquipmentName,
		BrandType:                 t.BrandType,
		SerialNo:                  t.SerialNo,
		InventoryCode:             t.InventoryCode,
		PeriodicInspectionDate:    t.PeriodicInspectionDate,
		CalibrationDate:           t.CalibrationDate,
		CalibrationValidityMonths: t.CalibrationValidityMonths,
		Condition:                 t.Condition,
		Description:               t.Description,
		EquipmentLocation:         t.EquipmentLocation,
		CalibrationCertificate:    t.CalibrationCertificate,
		EquipmentManual:           t.EquipmentManual,
		CreatedAt:                 t.CreatedAt,
		UpdatedAt:                 t.UpdatedAt,
	}
}
