package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// creditMarker trails the billing amount of credits and reversals.
const creditMarker = "CR"

// ParseLine parses one transaction line. Two layouts exist:
//
//	DATE DESCRIPTION... CURRENCY TXN_AMOUNT BILL_AMOUNT
//	DATE DESCRIPTION... CURRENCY TXN_AMOUNT BILL_AMOUNT CR
//
// The second is a credit and its billing amount is negated.
// Anything else is a *models.RecordParseError.
func ParseLine(line string) (models.TransactionRecord, error) {
	t := splitFields(line)
	n := len(t)
	fail := func(format string, args ...interface{}) (models.TransactionRecord, error) {
		return models.TransactionRecord{}, &models.RecordParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	if n >= 2 && isAmount(t[n-2]) && isAmount(t[n-1]) {
		if n < 4 {
			return fail("want date, currency and two amounts, got %d tokens", n)
		}
		txn, _ := parseAmount(t[n-2])
		bill, _ := parseAmount(t[n-1])
		return models.TransactionRecord{
			Date:              t[0],
			Description:       strings.Join(t[1:n-3], " "),
			Currency:          t[n-3],
			TransactionAmount: txn,
			BillingAmount:     bill,
			Layout:            models.LayoutStandard,
		}, nil
	}

	if n == 0 || t[n-1] != creditMarker {
		return fail("last two tokens are not amounts and no %s marker", creditMarker)
	}
	if n < 5 {
		return fail("want date, currency, two amounts and %s, got %d tokens", creditMarker, n)
	}
	txn, err := parseAmount(t[n-3])
	if err != nil {
		return fail("credit transaction amount: %v", err)
	}
	bill, err := parseAmount(t[n-2])
	if err != nil {
		return fail("credit billing amount: %v", err)
	}
	return models.TransactionRecord{
		Date:              t[0],
		Description:       strings.Join(t[1:n-4], " "),
		Currency:          t[n-4],
		TransactionAmount: txn,
		BillingAmount:     bill.Neg(),
		Layout:            models.LayoutCredit,
	}, nil
}

// ParseSegment parses the transaction lines of a section. Lines that are
// not transaction candidates are skipped; candidates that fail to parse are
// returned as errors and never produce a record.
func ParseSegment(section models.Section, lines []string, dates DateDetector) ([]models.TransactionRecord, []*models.RecordParseError) {
	return parseClassified(section, ClassifyLines(lines, dates))
}

// parseClassified parses the LineTransaction entries of a classified segment.
func parseClassified(section models.Section, lines []ClassifiedLine) ([]models.TransactionRecord, []*models.RecordParseError) {
	var (
		records  []models.TransactionRecord
		failures []*models.RecordParseError
	)
	for _, cl := range lines {
		if cl.Kind != LineTransaction {
			continue
		}
		rec, err := ParseLine(cl.Text)
		if err != nil {
			perr := err.(*models.RecordParseError)
			perr.Section = section
			failures = append(failures, perr)
			continue
		}
		rec.Origin = section.Origin()
		records = append(records, rec)
	}
	return records, failures
}
