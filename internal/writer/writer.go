package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// Format is an export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
	FormatNone Format = "none"
)

// ParseFormat maps a flag value to a Format. An empty value selects CSV and
// "yes" selects the workbook.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel", "yes":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "none", "no":
		return FormatNone, nil
	default:
		return "", fmt.Errorf("unknown format %q (use csv, xlsx, json, yaml or none)", s)
	}
}

// StatementWriter writes a whole statement to a single stream.
type StatementWriter interface {
	Write(out io.Writer, stmt *models.Statement) error
}

// Export writes the statement next to base (the input path without extension)
// and returns the files written. FormatNone writes nothing.
func Export(base string, format Format, stmt *models.Statement) ([]string, error) {
	var w StatementWriter
	switch format {
	case FormatNone:
		return nil, nil
	case FormatCSV:
		csvw := &CSVWriter{}
		return csvw.WriteFiles(base, stmt)
	case FormatJSON:
		w = &JSONWriter{Indent: true}
	case FormatYAML:
		w = &YAMLWriter{}
	case FormatXLSX:
		w = &XLSXWriter{}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	path := base + "." + string(format)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, stmt); err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
