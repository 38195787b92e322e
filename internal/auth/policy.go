package auth

// Operation names a guarded API action.
type Operation string

const (
	OpCurrentUser Operation = "auth.me"

	OpToolList                Operation = "tool.list"
	OpToolCreate              Operation = "tool.create"
	OpToolUpdate              Operation = "tool.update"
	OpToolDelete              Operation = "tool.delete"
	OpToolUploadCertificate   Operation = "tool.upload_certificate"
	OpToolUploadManual        Operation = "tool.upload_manual"
	OpToolDownloadCertificate Operation = "tool.download_certificate"
	OpToolDownloadManual      Operation = "tool.download_manual"
	OpToolBarcode             Operation = "tool.barcode"
	OpToolExport              Operation = "tool.export"

	OpLoanList   Operation = "loan.list"
	OpLoanCreate Operation = "loan.create"
	OpLoanPDF    Operation = "loan.pdf"

	OpCalibrationList   Operation = "calibration.list"
	OpCalibrationCreate Operation = "calibration.create"

	OpStockList            Operation = "stock.list"
	OpStockCreate          Operation = "stock.create"
	OpStockUpdate          Operation = "stock.update"
	OpStockDelete          Operation = "stock.delete"
	OpStockConsume         Operation = "stock.consume"
	OpStockUploadReceipt   Operation = "stock.upload_receipt"
	OpStockDownloadReceipt Operation = "stock.download_receipt"

	OpAnalysisRead Operation = "analysis.read"
)

// Requirement is what a caller must satisfy to run an operation.
type Requirement int

const (
	RequireUser Requirement = iota + 1
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireUser:
		return "require_user"
	case RequireAdmin:
		return "require_admin"
	default:
		return "unknown"
	}
}

// Policy maps each operation to its requirement. Operations missing from
// the table are denied.
type Policy map[Operation]Requirement

// DefaultPolicy lets any signed-in user read everything and consume stock.
// Every other write is for admins.
func DefaultPolicy() Policy {
	return Policy{
		OpCurrentUser: RequireUser,

		OpToolList:                RequireUser,
		OpToolDownloadCertificate: RequireUser,
		OpToolDownloadManual:      RequireUser,
		OpToolBarcode:             RequireUser,
		OpToolExport:              RequireUser,
		OpToolCreate:              RequireAdmin,
		OpToolUpdate:              RequireAdmin,
		OpToolDelete:              RequireAdmin,
		OpToolUploadCertificate:   RequireAdmin,
		OpToolUploadManual:        RequireAdmin,

		OpLoanList:   RequireUser,
		OpLoanPDF:    RequireUser,
		OpLoanCreate: RequireAdmin,

		OpCalibrationList:   RequireUser,
		OpCalibrationCreate: RequireAdmin,

		OpStockList:            RequireUser,
		OpStockDownloadReceipt: RequireUser,
		OpStockConsume:         RequireUser,
		OpStockCreate:          RequireAdmin,
		OpStockUpdate:          RequireAdmin,
		OpStockDelete:          RequireAdmin,
		OpStockUploadReceipt:   RequireAdmin,

		OpAnalysisRead: RequireUser,
	}
}
