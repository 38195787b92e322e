package loan

import "time"

// Equipment is a snapshot of a tool at the time it was lent out.
type Equipment struct {
	EquipmentName string `json:"equipment_name"`
	SerialNo      string `json:"serial_no"`
	Condition     string `json:"condition"`
}

type Loan struct {
	ID              string      `gorm:"column:id;type:varchar(36);primaryKey"`
	BorrowerName    string      `gorm:"column:borrower_name;size:200;not null"`
	LoanDate        string      `gorm:"column:loan_date;size:40;not null"`
	ReturnDate      string      `gorm:"column:return_date;size:40;not null"`
	Equipments      []Equipment `gorm:"column:equipments;type:text;serializer:json"`
	ProjectName     string      `gorm:"column:project_name;size:200"`
	WBSProjectNo    string      `gorm:"column:wbs_project_no;size:100"`
	ProjectLocation string      `gorm:"column:project_location;size:200"`
	CreatedAt       time.Time   `gorm:"column:created_at"`
	CreatedBy       string      `gorm:"column:created_by;size:100;not null"`
}

func (Loan) TableName() string {
	return "loans"
}
