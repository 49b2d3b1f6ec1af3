// Package xlsx exports display rows as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the observations.
const SheetName = "Observations"

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write renders rows into a single-sheet workbook: a header row with the CSV
// column names followed by one row per display row.
func Write(w io.Writer, rows []domain.DisplayRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range domain.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		rowNum := i + 2 // skip header
		values := []string{row.ChineseName, row.EnglishName, row.Description, row.Location, row.DisplayDate, row.URL}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
		if row.URL != "" {
			cell, _ := excelize.CoordinatesToCellName(len(values), rowNum)
			if err := f.SetCellHyperLink(SheetName, cell, row.URL, "External"); err != nil {
				return fmt.Errorf("link cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
