package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// LineKind is the role a single line plays in a statement.
type LineKind int

const (
	LineOther LineKind = iota
	LineNoise
	LineBoundary
	LineTransaction
)

func (k LineKind) String() string {
	switch k {
	case LineNoise:
		return "noise"
	case LineBoundary:
		return "boundary"
	case LineTransaction:
		return "transaction"
	default:
		return "other"
	}
}

// pageFooterPattern matches "Page 3 of 10" style footers.
var pageFooterPattern = regexp.MustCompile(`^Page \d+ of`)

// boilerplatePrefixes are legal notes repeated on every statement page.
var boilerplatePrefixes = []string{
	"-",
	"*",
	"Cash Limit is subject to availability of total Credit Limit.",
	"originated in Bangladesh etc. with foreign currencies or through your international card, as these type of transactions are strictly prohibited and punishable offences by the directives of Bangladesh Bank and Bangladesh",
	"Government.",
}

// boundaryPunctuation is the punctuation allowed in section headers.
const boundaryPunctuation = ",&()*"

// IsPageFooter reports whether the line is a page footer or legal boilerplate.
func IsPageFooter(line string) bool {
	if pageFooterPattern.MatchString(line) {
		return true
	}
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// IsBoundaryCandidate reports whether the line has the shape of a section header:
// only uppercase letters, digits, whitespace and ",&()*".
func IsBoundaryCandidate(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	for _, r := range line {
		if unicode.IsUpper(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(boundaryPunctuation, r) {
			continue
		}
		return false
	}
	return true
}

// DateDetector decides whether a line opens with a transaction date.
type DateDetector interface {
	StartsWithDate(line string) bool
	Name() string
}

// StrictDate requires a full two-digit day, two-digit month, four-digit year token.
var StrictDate DateDetector = strictDate{}

// LeadingDigit only looks at the first character, which must be a possible
// first digit of a day. It accepts anything starting with 0-3, so lines like
// "3 ITEMS" are taken as transactions too.
var LeadingDigit DateDetector = leadingDigit{}

type strictDate struct{}

func (strictDate) StartsWithDate(line string) bool { return datePatternStrict.MatchString(line) }
func (strictDate) Name() string                    { return "strict" }

type leadingDigit struct{}

func (leadingDigit) StartsWithDate(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '3'
}
func (leadingDigit) Name() string { return "leading-digit" }

// DetectorByName resolves a detector from its configured name.
func DetectorByName(name string) (DateDetector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return StrictDate, nil
	case "leading-digit", "leading", "prefix":
		return LeadingDigit, nil
	default:
		return nil, fmt.Errorf("unknown date detector %q (use strict or leading-digit)", name)
	}
}

// classify checks noise first, so a footer never counts as a header or a transaction.
func classify(line string, dates DateDetector) LineKind {
	switch {
	case IsPageFooter(line):
		return LineNoise
	case dates.StartsWithDate(line):
		return LineTransaction
	case IsBoundaryCandidate(line):
		return LineBoundary
	default:
		return LineOther
	}
}

// ClassifiedLine is a line paired with its kind. Every pipeline stage reads
// Kind instead of re-testing the text.
type ClassifiedLine struct {
	Text string
	Kind LineKind
}

// ClassifyLines tags every line, keeping input order. A nil detector means StrictDate.
func ClassifyLines(lines []string, dates DateDetector) []ClassifiedLine {
	if dates == nil {
		dates = StrictDate
	}
	out := make([]ClassifiedLine, len(lines))
	for i, line := range lines {
		out[i] = ClassifiedLine{Text: line, Kind: classify(line, dates)}
	}
	return out
}
