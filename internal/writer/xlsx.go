package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// XLSXWriter writes a statement as a workbook with one sheet per section.
type XLSXWriter struct{}

func (w *XLSXWriter) Write(out io.Writer, stmt *models.Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, section := range sheetOrder {
		sheet := section.Title()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, stmt.Records(section)); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// writeSheet fills a sheet with the column header and one row per record.
// Amounts are stored as numbers.
func writeSheet(f *excelize.File, sheet string, records []models.TransactionRecord) error {
	header := make([]interface{}, len(csvColumns))
	for i, col := range csvColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Date,
			rec.Description,
			rec.Currency,
			rec.TransactionAmount.InexactFloat64(),
			rec.BillingAmount.InexactFloat64(),
			string(rec.Origin),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
