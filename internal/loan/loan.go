package loan

import (
	"time"

	loanDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/loan"
)

// MaxEquipments is how many tools one loan form can carry.
const MaxEquipments = 5

// Equipment is a copy of the tool details at the time of lending. It is not
// linked to the registry.
type Equipment struct {
	EquipmentName string `json:"equipment_name" validate:"required"`
	SerialNo      string `json:"serial_no" validate:"required"`
	Condition     string `json:"condition"`
}

type Loan struct {
	ID              string      `json:"id"`
	BorrowerName    string      `json:"borrower_name"`
	LoanDate        string      `json:"loan_date"`
	ReturnDate      string      `json:"return_date"`
	Equipments      []Equipment `json:"equipments"`
	ProjectName     string      `json:"project_name"`
	WBSProjectNo    string      `json:"wbs_project_no"`
	ProjectLocation string      `json:"project_location"`
	CreatedAt       time.Time   `json:"created_at"`
	CreatedBy       string      `json:"created_by"`
}

func ToDataModel(l *Loan) *loanDatamodel.Loan {
	equipments := make([]loanDatamodel.Equipment, 0, len(l.Equipments))
	for _, e := range l.Equipments {
		equipments = append(equipments, loanDatamodel.Equipment{
			EquipmentName: e.EquipmentName,
			SerialNo:      e.SerialNo,
			Condition:     e.Condition,
		})
	}
	return &loanDatamodel.Loan{
		ID:              l.ID,
		BorrowerName:    l.BorrowerName,
		LoanDate:        l.LoanDate,
		ReturnDate:      l.ReturnDate,
		Equipments:      equipments,
		ProjectName:     l.ProjectName,
		WBSProjectNo:    l.WBSProjectNo,
		ProjectLocation: l.ProjectLocation,
		CreatedAt:       l.CreatedAt,
		CreatedBy:       l.CreatedBy,
	}
}

func FromDataModel(l *loanDatamodel.Loan) *Loan {
	equipments := make([]Equipment, 0, len(l.Equipments))
	for _, e := range l.Equipments {
		equipments = append(equipments, Equipment{
			EquipmentName: e.EquipmentName,
			SerialNo:      e.SerialNo,
			Condition:     e.Condition,
		})
	}
	return &Loan{
		ID:              l.ID,
		BorrowerName:    l.BorrowerName,
		LoanDate:        l.LoanDate,
		ReturnDate:      l.ReturnDate,
		Equipments:      equipments,
		ProjectName:     l.ProjectName,
		WBSProjectNo:    l.WBSProjectNo,
		ProjectLocation: l.ProjectLocation,
		CreatedAt:       l.CreatedAt,
		CreatedBy:       l.CreatedBy,
	}
}
