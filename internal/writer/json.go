package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// JSONWriter writes a statement as a JSON object keyed by section title.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) Write(out io.Writer, stmt *models.Statement) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(newDocument(stmt)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
