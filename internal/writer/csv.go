package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/cardstatement/internal/models"
)

var csvColumns = []string{
	"transaction_date", "transaction_description", "currency",
	"transaction_amount", "billing_amount", "transaction_origin",
}

// CSVWriter writes statement sections to CSV.
type CSVWriter struct {
	// IncludeHeader adds a "# Section" metadata row before the column headers.
	IncludeHeader bool
}

// WriteFiles writes one CSV per section next to base, e.g. base_fees.csv,
// and returns the paths written.
func (w *CSVWriter) WriteFiles(base string, stmt *models.Statement) ([]string, error) {
	var paths []string
	for _, section := range models.Sections {
		path := fmt.Sprintf("%s_%s.csv", base, section)
		if err := w.writeSectionFile(path, section, stmt.Records(section)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *CSVWriter) writeSectionFile(path string, section models.Section, records []models.TransactionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.WriteSection(f, section, records); err != nil {
		return err
	}
	return f.Close()
}

// WriteSection writes the records of one section in CSV format.
func (w *CSVWriter) WriteSection(out io.Writer, section models.Section, records []models.TransactionRecord) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if err := writer.Write([]string{"# Section", section.Title()}); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteStatement writes every section into a single CSV with a leading section column.
func (w *CSVWriter) WriteStatement(out io.Writer, stmt *models.Statement) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(append([]string{"section"}, csvColumns...)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, section := range models.Sections {
		for _, rec := range stmt.Records(section) {
			if err := writer.Write(append([]string{string(section)}, recordRow(rec)...)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func recordRow(rec models.TransactionRecord) []string {
	return []string{
		rec.Date,
		rec.Description,
		rec.Currency,
		formatAmount(rec.TransactionAmount),
		formatAmount(rec.BillingAmount),
		string(rec.Origin),
	}
}
