package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/cardstatement/internal/models"
)

func sampleStatement() *models.Statement {
	d := decimal.RequireFromString
	return &models.Statement{
		Fees: []models.TransactionRecord{
			{Date: "05-03-2024", Description: "ANNUAL FEE", Currency: "BDT", TransactionAmount: d("2000"), BillingAmount: d("2000")},
		},
		Refunds: []models.TransactionRecord{
			{Date: "09-03-2024", Description: "REFUND DARAZ BD", Currency: "BDT", TransactionAmount: d("1250"), BillingAmount: d("-1250"), Layout: models.LayoutCredit},
		},
		PrimaryExpenses: []models.TransactionRecord{
			{Date: "10-03-2024", Description: "AMAZON RETAIL", Currency: "USD", TransactionAmount: d("120.5"), BillingAmount: d("13255"), Origin: models.OriginPrimary},
			{Date: "12-03-2024", Description: "SHWAPNO, GULSHAN", Currency: "BDT", TransactionAmount: d("4520.75"), BillingAmount: d("4520.75"), Origin: models.OriginPrimary},
		},
		SecondaryExpenses: []models.TransactionRecord{
			{Date: "15-03-2024", Description: "AARONG DHANMONDI", Currency: "BDT", TransactionAmount: d("8900"), BillingAmount: d("8900"), Origin: models.OriginSecondary},
		},
	}
}

func TestCSVWriter_WriteSection(t *testing.T) {
	stmt := sampleStatement()

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.WriteSection(&buf, models.SectionPrimary, stmt.PrimaryExpenses))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# Section,Basic Card Expenses", lines[0])
	assert.Equal(t, "transaction_date,transaction_description,currency,transaction_amount,billing_amount,transaction_origin", lines[1])
	assert.Equal(t, "10-03-2024,AMAZON RETAIL,USD,120.50,13255.00,primary", lines[2])
	assert.Equal(t, `12-03-2024,"SHWAPNO, GULSHAN",BDT,4520.75,4520.75,primary`, lines[3])
}

func TestCSVWriter_WriteSectionNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.WriteSection(&buf, models.SectionFees, nil))

	assert.NotContains(t, buf.String(), "# Section")
	assert.Equal(t, strings.Join(csvColumns, ",")+"\n", buf.String())
}

func TestCSVWriter_WriteStatement(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.WriteStatement(&buf, sampleStatement()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "section,transaction_date"))
	assert.Equal(t, "fees,05-03-2024,ANNUAL FEE,BDT,2000.00,2000.00,", lines[1])
	assert.Equal(t, "refunds,09-03-2024,REFUND DARAZ BD,BDT,1250.00,-1250.00,", lines[2])
	assert.True(t, strings.HasPrefix(lines[5], "secondary_expenses,15-03-2024"))
}

func TestCSVWriter_WriteFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "march")
	w := &CSVWriter{}

	paths, err := w.WriteFiles(base, sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, []string{
		base + "_fees.csv",
		base + "_refunds.csv",
		base + "_primary_expenses.csv",
		base + "_secondary_expenses.csv",
	}, paths)

	data, err := os.ReadFile(base + "_refunds.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-1250.00")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"25.99", "25.99"},
		{"1234.5", "1234.50"},
		{"0", "0.00"},
		{"-55", "-55.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(decimal.RequireFromString(tt.input)))
	}
}
