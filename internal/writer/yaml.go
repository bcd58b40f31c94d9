package writer

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// YAMLWriter writes a statement as YAML with the same keys as the JSON export.
type YAMLWriter struct{}

func (w *YAMLWriter) Write(out io.Writer, stmt *models.Statement) error {
	data, err := yaml.Marshal(newDocument(stmt))
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}
