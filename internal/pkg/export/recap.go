package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

var recapHeaders = []interface{}{
	"Employee ID", "Employee", "Present", "Permission", "Sick", "Leave", "Absent",
	"Coding Sessions", "Non-coding Sessions", "Coding Value", "Non-coding Value", "Session Income",
}

// RecapWorkbook writes one sheet per period with a row per recap. names maps
// employee ID to display name; missing names are left blank.
func RecapWorkbook(w io.Writer, p period.Period, recaps []recap.MonthlyRecap, names map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Recap " + p.String()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &recapHeaders); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(recapHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, r := range recaps {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.EmployeeID, names[r.EmployeeID],
			r.PresentDays, r.PermissionDays, r.SickDays, r.LeaveDays, r.AbsentDays,
			r.CodingSessions, r.NonCodingSessions,
			r.CodingValue.StringFixed(0), r.NonCodingValue.StringFixed(0), r.SessionIncome.StringFixed(0),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write recap row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
