// server/internal/export/excel.go
package export

import (
	"bytes"
	"fmt"

	"vetiver-carbon-api-server/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Registros"

// Headers is the fixed column layout of the export, in order.
var Headers = []string{"ID", "Fecha", "Origen", "Emisiones (t)", "Captura (t)", "Estado"}

// BuildWorkbook renders the records into an xlsx workbook, one row per record
// in the order given. Tonnage columns are formatted to 4 decimals.
func BuildWorkbook(records []models.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	numFmt := "0.0000"
	tonsStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}

	for i, r := range records {
		row := i + 2
		values := []interface{}{
			r.RecordID,
			r.Fecha.Format("2006-01-02"),
			r.Origen,
			r.Emisiones,
			r.Captura,
			r.Estado,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		// Columns D and E hold the tonnage figures.
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), tonsStyle); err != nil {
			return nil, fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}

	return f, nil
}

// WorkbookBytes serializes the workbook for download or upload.
func WorkbookBytes(records []models.Record) ([]byte, error) {
	f, err := BuildWorkbook(records)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
