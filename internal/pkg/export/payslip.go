// Package export renders payroll documents: PDF payslips and XLSX recap sheets.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

// Payslip writes a one page A4 payslip for p. Amounts are labelled with currency.
func Payslip(w io.Writer, emp employee.Employee, p payroll.Payroll, currency string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", emp.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s (%s to %s)", p.Period, p.Period.Start().Format("2006-01-02"), p.Period.End().Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pay type: %s", p.PayType))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", p.Status))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Component", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("Amount (%s)", currency), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, c := range p.Components {
		pdf.CellFormat(120, 8, c.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, c.Amount.StringFixed(0), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, p.Total.StringFixed(0), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip %s: %w", p.ID, err)
	}
	return nil
}
