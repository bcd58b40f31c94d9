package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Card statement dates are DD-MM-YYYY; DD/MM/YYYY and DD.MM.YYYY are accepted
// too, but both separators must be the same.
var datePatternStrict = regexp.MustCompile(`^\d{2}(?:-\d{2}-|/\d{2}/|\.\d{2}\.)\d{4}(?:\s|$)`)

// amountPattern matches a plain decimal once grouping commas are removed.
var amountPattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)$`)

// parseAmount converts a token like "1,234.56" into a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("not an amount: %q", s)
	}
	return decimal.NewFromString(s)
}

// isAmount reports whether the token parses as an amount.
func isAmount(s string) bool {
	_, err := parseAmount(s)
	return err == nil
}

// splitFields splits a line into whitespace-separated tokens.
func splitFields(line string) []string {
	return strings.Fields(line)
}
