package extractor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned by Load for files that are neither PDF nor text.
var ErrUnsupportedFile = errors.New("expected .pdf or .txt file")

// maxLineLen bounds a single statement line read from text input.
const maxLineLen = 1 << 20

// SplitLines flattens page texts into trimmed, non-empty lines, keeping order.
func SplitLines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// ReadLines reads pre-extracted statement text, one line per line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read statement text: %w", err)
	}
	return lines, nil
}

// Load returns the lines of a statement file: PDFs are extracted, .txt files read as-is.
func Load(path, password string) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return ExtractLines(path, password)
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadLines(f)
	default:
		return nil, fmt.Errorf("%w, got %q", ErrUnsupportedFile, ext)
	}
}
