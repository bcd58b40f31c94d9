package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	pages := []string{
		"  BRAC BANK LIMITED \n\nPAYMENTS\n",
		"\t15-03-2024 AMAZON RETAIL USD 120.50 130.75\r\n   \nPage 2 of 2",
	}

	assert.Equal(t, []string{
		"BRAC BANK LIMITED",
		"PAYMENTS",
		"15-03-2024 AMAZON RETAIL USD 120.50 130.75",
		"Page 2 of 2",
	}, SplitLines(pages))
}

func TestSplitLines_Empty(t *testing.T) {
	assert.Empty(t, SplitLines(nil))
	assert.Empty(t, SplitLines([]string{"", "  \n \n"}))
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("PAYMENTS\r\n\n  15-03-2024 X USD 1.00 1.00  \nGovernment."))
	require.NoError(t, err)
	assert.Equal(t, []string{"PAYMENTS", "15-03-2024 X USD 1.00 1.00", "Government."}, lines)
}

func TestLoad_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.txt")
	require.NoError(t, os.WriteFile(path, []byte("PAYMENTS\n\nBASIC CARD JOHN DOE\n"), 0o644))

	lines, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"PAYMENTS", "BASIC CARD JOHN DOE"}, lines)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("statement.docx", "")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.ErrorContains(t, err, ".docx")

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.pdf"), "")
	assert.Error(t, err)
}

func TestExtractPages_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := ExtractPages(path, "")
	assert.Error(t, err)
}

func TestIsReadableText(t *testing.T) {
	good := []string{"Credit Card Statement\nPAYMENTS\n15-03-2024 AMAZON RETAIL USD 120.50 130.75"}
	assert.True(t, isReadableText(good))

	assert.False(t, isReadableText([]string{"short"}))
	assert.False(t, isReadableText([]string{strings.Repeat("éüñ", 40)}))
	assert.False(t, isReadableText([]string{strings.Repeat("lorem ipsum ", 10)}))
}

func TestTextQuality(t *testing.T) {
	assert.Equal(t, 0.0, textQuality(nil))
	assert.Equal(t, 1.0, textQuality([]string{"PAYMENTS 1,234.56"}))
	assert.InDelta(t, 0.5, textQuality([]string{"abéü"}), 0.001)
}
