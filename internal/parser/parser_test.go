package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/insightdelivered/cardstatement/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `BRAC BANK LIMITED
Credit Card Statement
Statement Date 20-03-2024
Page 1 of 2
PAYMENTS
02-03-2024 PAYMENT RECEIVED - THANK YOU BDT 25,000.00 25,000.00 CR
INTERESTS, FEES & VAT
05-03-2024 ANNUAL FEE BDT 2,000.00 2,000.00
05-03-2024 VAT ON ANNUAL FEE BDT 300.00 300.00
REFUND, REVERSAL & CREDITS
09-03-2024 REFUND DARAZ BD BDT 1,250.00 1,250.00 CR
* Foreign currency transactions are billed at the network rate
BASIC CARD JOHN DOE
Transaction Date Description Currency Amount Billing Amount
10-03-2024 AMAZON RETAIL USD 120.50 13,255.00
12-03-2024 SHWAPNO SUPERSHOP BDT 4,520.75 4,520.75
Page 2 of 2
Cash Limit is subject to availability of total Credit Limit.
14-03-2024 NETFLIX.COM USD 15.49 1,703.90
SUPPLEMENTARY CARD JANE DOE
15-03-2024 AARONG DHANMONDI BDT 8,900.00 8,900.00
16-03-2024 FOODPANDA BD BDT 650.00 650.00
17-03-2024 FOODPANDA BD BDT 120.00 120.00 CR
TOTAL OUTSTANDING 52,199.65`

func sampleLines() []string {
	return strings.Split(sampleStatement, "\n")
}

func descriptions(records []models.TransactionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Description
	}
	return out
}

func TestCardStatementParser_Parse(t *testing.T) {
	stmt, err := New().Parse(sampleLines())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PAYMENTS",
		"INTERESTS, FEES & VAT",
		"REFUND, REVERSAL & CREDITS",
		"BASIC CARD JOHN DOE",
		"SUPPLEMENTARY CARD JANE DOE",
	}, stmt.Boundaries)

	assert.Equal(t, []string{"ANNUAL FEE", "VAT ON ANNUAL FEE"}, descriptions(stmt.Fees))
	assert.Equal(t, []string{"REFUND DARAZ BD"}, descriptions(stmt.Refunds))
	assert.Equal(t, []string{"AMAZON RETAIL", "SHWAPNO SUPERSHOP", "NETFLIX.COM"}, descriptions(stmt.PrimaryExpenses))
	assert.Equal(t, []string{"AARONG DHANMONDI", "FOODPANDA BD", "FOODPANDA BD"}, descriptions(stmt.SecondaryExpenses))

	assert.True(t, stmt.Refunds[0].BillingAmount.Equal(dec("-1250")))
	assert.True(t, stmt.SecondaryExpenses[2].BillingAmount.Equal(dec("-120")))
	assert.True(t, stmt.PrimaryExpenses[0].BillingAmount.Equal(dec("13255")))

	for _, r := range stmt.Fees {
		assert.Equal(t, models.OriginNone, r.Origin)
	}
	for _, r := range stmt.Refunds {
		assert.Equal(t, models.OriginNone, r.Origin)
	}
	for _, r := range stmt.PrimaryExpenses {
		assert.Equal(t, models.OriginPrimary, r.Origin)
	}
	for _, r := range stmt.SecondaryExpenses {
		assert.Equal(t, models.OriginSecondary, r.Origin)
	}

	assert.Empty(t, stmt.ParseErrors)
	assert.Empty(t, stmt.Warnings)
	assert.NoError(t, stmt.Err())
	assert.Equal(t, 9, stmt.Total())
}

func TestCardStatementParser_SectionsDisjoint(t *testing.T) {
	// Repeated header text must not pull earlier lines into a later section.
	lines := []string{
		"BASIC CARD JOHN DOE",
		"01-03-2024 SUMMARY LINE BDT 1.00 1.00",
		"PAYMENTS",
		"02-03-2024 LATE FEE BDT 500.00 500.00",
		"INTERESTS, FEES & VAT",
		"03-03-2024 REVERSAL BDT 10.00 10.00 CR",
		"REFUND, REVERSAL & CREDITS",
		"04-03-2024 DARAZ BDT 20.00 20.00",
		"BASIC CARD JOHN DOE",
		"05-03-2024 AARONG BDT 30.00 30.00",
		"SUPPLEMENTARY CARD JANE DOE",
		"06-03-2024 FOODPANDA BDT 40.00 40.00",
	}

	stmt, err := New().Parse(lines)
	require.NoError(t, err)

	assert.Equal(t, []string{"LATE FEE"}, descriptions(stmt.Fees))
	assert.Equal(t, []string{"REVERSAL"}, descriptions(stmt.Refunds))
	assert.Equal(t, []string{"DARAZ"}, descriptions(stmt.PrimaryExpenses))
	assert.Equal(t, []string{"AARONG", "FOODPANDA"}, descriptions(stmt.SecondaryExpenses))

	seen := map[string]models.Section{}
	for _, section := range models.Sections {
		for _, r := range stmt.Records(section) {
			key := r.Date + " " + r.Description
			prev, dup := seen[key]
			assert.False(t, dup, "%s appears in %s and %s", key, prev, section)
			seen[key] = section
		}
	}
	assert.NotContains(t, seen, "01-03-2024 SUMMARY LINE")
}

func TestCardStatementParser_StructureError(t *testing.T) {
	lines := []string{
		"PAYMENTS",
		"INTERESTS, FEES & VAT",
		"05-03-2024 ANNUAL FEE BDT 2,000.00 2,000.00",
		"BASIC CARD JOHN DOE",
		"10-03-2024 AMAZON RETAIL USD 120.50 13,255.00",
	}

	stmt, err := New().Parse(lines)
	assert.Nil(t, stmt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStructure))

	var serr *models.StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Found)
}

func TestCardStatementParser_FootersDoNotCountAsBoundaries(t *testing.T) {
	lines := strings.Split(strings.Replace(sampleStatement,
		"SUPPLEMENTARY CARD JANE DOE", "* SUPPLEMENTARY CARD JANE DOE", 1), "\n")

	_, err := New().Parse(lines)
	assert.ErrorIs(t, err, models.ErrStructure)
}

func TestCardStatementParser_CollectsParseErrors(t *testing.T) {
	lines := sampleLines()
	lines = append(lines[:15], append([]string{"11-03-2024 TRUNCATED LINE USD"}, lines[15:]...)...)

	stmt, err := New().Parse(lines)
	require.NoError(t, err)

	require.Len(t, stmt.ParseErrors, 1)
	assert.Equal(t, models.SectionPrimary, stmt.ParseErrors[0].Section)
	assert.Equal(t, "11-03-2024 TRUNCATED LINE USD", stmt.ParseErrors[0].Line)
	assert.ErrorIs(t, stmt.Err(), models.ErrRecordParse)

	// The malformed line is dropped, everything else still parses.
	assert.Len(t, stmt.PrimaryExpenses, 3)
	for _, section := range models.Sections {
		for _, r := range stmt.Records(section) {
			assert.NotEqual(t, "TRUNCATED LINE", r.Description)
		}
	}
}

func TestCardStatementParser_StrictAbortsOnFirstError(t *testing.T) {
	lines := sampleLines()
	lines = append(lines[:15], append([]string{"11-03-2024 TRUNCATED LINE USD"}, lines[15:]...)...)

	stmt, err := New(WithStrict(true)).Parse(lines)
	assert.Nil(t, stmt)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRecordParse)

	var perr *models.RecordParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, models.SectionPrimary, perr.Section)
}

func TestCardStatementParser_EmptySectionWarning(t *testing.T) {
	lines := []string{
		"PAYMENTS",
		"INTERESTS, FEES & VAT",
		"No fees this period",
		"REFUND, REVERSAL & CREDITS",
		"17-03-2024 BROKEN REFUND",
		"BASIC CARD JOHN DOE",
		"10-03-2024 AMAZON RETAIL USD 120.50 13,255.00",
		"SUPPLEMENTARY CARD JANE DOE",
	}

	stmt, err := New().Parse(lines)
	require.NoError(t, err)

	// Fees and secondary had no transaction lines; refunds had one that failed.
	assert.Equal(t, []models.EmptySectionWarning{
		{Section: models.SectionFees},
		{Section: models.SectionSecondary},
	}, stmt.Warnings)
	require.Len(t, stmt.ParseErrors, 1)
	assert.Equal(t, models.SectionRefunds, stmt.ParseErrors[0].Section)
	assert.Len(t, stmt.PrimaryExpenses, 1)
}

func TestCardStatementParser_LeadingDigitDetector(t *testing.T) {
	lines := sampleLines()
	lines = append(lines[:15], append([]string{"2 TRANSACTIONS BELOW"}, lines[15:]...)...)

	stmt, err := New().Parse(lines)
	require.NoError(t, err)
	assert.Empty(t, stmt.ParseErrors)

	p := New(WithDateDetector(LeadingDigit))
	assert.Equal(t, "leading-digit", p.DateDetector().Name())
	stmt, err = p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, stmt.ParseErrors, 1)
	assert.Equal(t, "2 TRANSACTIONS BELOW", stmt.ParseErrors[0].Line)
	assert.Len(t, stmt.PrimaryExpenses, 3)
}

func TestCardStatementParser_ActsOnLineKinds(t *testing.T) {
	lines := sampleLines()
	lines = append(lines[:15], append([]string{"3 ITEMS ON HOLD"}, lines[15:]...)...)

	tests := []struct {
		dates      DateDetector
		wantErrors []string
	}{
		{dates: StrictDate},
		{dates: LeadingDigit, wantErrors: []string{"3 ITEMS ON HOLD"}},
	}

	for _, tt := range tests {
		t.Run(tt.dates.Name(), func(t *testing.T) {
			classified := ClassifyLines(lines, tt.dates)
			kinds := make(map[string]LineKind, len(classified))
			for _, cl := range classified {
				kinds[cl.Text] = cl.Kind
			}

			stmt, err := New(WithDateDetector(tt.dates)).Parse(lines)
			require.NoError(t, err)

			// Headers come only from boundary-kind lines in the vocabulary.
			var headers []string
			for _, cl := range classified {
				if cl.Kind == LineBoundary && IsBoundary(cl.Text) {
					headers = append(headers, cl.Text)
				}
			}
			assert.Equal(t, headers, stmt.Boundaries)

			// Every transaction-kind line after the fees header became a record or an error.
			after, want := false, 0
			for _, cl := range classified {
				if cl.Text == stmt.Boundaries[offsetFees] {
					after = true
					continue
				}
				if after && cl.Kind == LineTransaction {
					want++
				}
			}
			assert.Equal(t, want, stmt.Total()+len(stmt.ParseErrors))

			var failed []string
			for _, pe := range stmt.ParseErrors {
				assert.Equal(t, LineTransaction, kinds[pe.Line])
				failed = append(failed, pe.Line)
			}
			assert.Equal(t, tt.wantErrors, failed)
			assert.Len(t, stmt.PrimaryExpenses, 3)
		})
	}
}

func TestCardStatementParser_Deterministic(t *testing.T) {
	p := New()
	want, err := p.Parse(sampleLines())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*models.Statement, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stmt, err := p.Parse(sampleLines())
			if err == nil {
				results[i] = stmt
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.NotNil(t, got)
		assert.Equal(t, want, got)
	}
}

func TestParse_DefaultParser(t *testing.T) {
	stmt, err := Parse(sampleLines())
	require.NoError(t, err)
	assert.Equal(t, 9, stmt.Total())
	assert.Equal(t, "Credit Card Statement", New().Name())
	assert.Equal(t, "strict", New(WithDateDetector(nil)).DateDetector().Name())
}
