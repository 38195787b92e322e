package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// LoanForm is the content of a printed equipment loan form.
type LoanForm struct {
	BorrowerName    string
	LoanDate        string
	ReturnDate      string
	ProjectName     string
	WBSProjectNo    string
	ProjectLocation string
	Equipments      []LoanFormEquipment
}

type LoanFormEquipment struct {
	EquipmentName string
	SerialNo      string
	Condition     string
}

const equipmentNameWidth = 30

// LoanForm renders a one page A4 form. Coordinates are points from the top
// left corner.
func (g *Generator) LoanForm(form LoanForm) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Equipment Loan Form", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(x, y float64, s string) {
		pdf.Text(x, y, tr(s))
	}

	pdf.SetFont("Helvetica", "B", 16)
	text(50, 50, "EQUIPMENT LOAN FORM")

	pdf.SetFont("Helvetica", "", 10)
	y := 100.0
	fields := []struct{ label, value string }{
		{"Borrower Name", form.BorrowerName},
		{"Loan Date", form.LoanDate},
		{"Return Date", form.ReturnDate},
		{"Project Name", form.ProjectName},
		{"WBS Project No.", form.WBSProjectNo},
		{"Project Location", form.ProjectLocation},
	}
	for _, f := range fields {
		text(50, y, fmt.Sprintf("%s: %s", f.label, f.value))
		y += 20
	}
	y += 10

	pdf.SetFont("Helvetica", "B", 11)
	text(50, y, "Equipment Details:")
	y += 20

	pdf.SetFont("Helvetica", "B", 9)
	text(50, y, "No.")
	text(100, y, "Equipment Name")
	text(300, y, "Serial No.")
	text(450, y, "Condition")
	y += 15

	pdf.SetFont("Helvetica", "", 9)
	for i, eq := range form.Equipments {
		text(50, y, strconv.Itoa(i+1))
		text(100, y, truncate(eq.EquipmentName, equipmentNameWidth))
		text(300, y, eq.SerialNo)
		text(450, y, eq.Condition)
		y += 15
	}
	y += 30

	pdf.SetFont("Helvetica", "B", 10)
	text(50, y, "SIGNATURES")
	y += 30

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetLineWidth(0.5)
	for _, sig := range []struct {
		label string
		x     float64
	}{
		{"Borrower", 50},
		{"Submitter", 180},
		{"Approver", 310},
		{"Coordinator", 440},
	} {
		text(sig.x, y, sig.label+":")
		pdf.Line(sig.x, y+5, sig.x+100, y+5)
		text(sig.x, y+20, "Name:")
		pdf.Line(sig.x+35, y+25, sig.x+100, y+25)
		text(sig.x, y+35, "Date:")
		pdf.Line(sig.x+30, y+40, sig.x+100, y+40)
	}

	y += 80
	text(50, y, "Senior Manager:")
	pdf.Line(150, y+5, 300, y+5)
	text(50, y+20, "Name:")
	pdf.Line(100, y+25, 300, y+25)
	text(50, y+35, "Date:")
	pdf.Line(100, y+40, 300, y+40)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render loan form: %w", err)
	}
	return buf.Bytes(), nil
}
