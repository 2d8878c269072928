package export

import (
	"fmt"
	"io"

	"chitsmart/models"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Customers"

var xlsxHeaders = []string{"Name", "Number", "Scheme", "Lift Status", "Disbursed Date"}

// CustomersXLSX writes a single-sheet workbook with the same columns the
// admin customers table shows.
func CustomersXLSX(w io.Writer, customers []models.Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	for i, header := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, header)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(SheetName, "A1", "E1", style)
	}

	for i, c := range customers {
		row := i + 2
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), c.Name)
		f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), c.Number)
		f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), c.Scheme)
		f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), c.LiftStatus.Label())
		f.SetCellValue(SheetName, fmt.Sprintf("E%d", row), c.DisbursedLabel())
	}
	f.SetColWidth(SheetName, "A", "A", 28)
	f.SetColWidth(SheetName, "B", "E", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
