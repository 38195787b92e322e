package loan

type LoanDTO struct {
	BorrowerName    string      `json:"borrower_name" validate:"required"`
	LoanDate        string      `json:"loan_date" validate:"required"`
	ReturnDate      string      `json:"return_date" validate:"required"`
	Equipments      []Equipment `json:"equipments" validate:"dive"`
	ProjectName     string      `json:"project_name" validate:"required"`
	WBSProjectNo    string      `json:"wbs_project_no" validate:"required"`
	ProjectLocation string      `json:"project_location" validate:"required"`
}
