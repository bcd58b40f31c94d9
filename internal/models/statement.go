package models

import "errors"

// Section names one of the four transaction groups of a card statement.
type Section string

const (
	SectionFees      Section = "fees"
	SectionRefunds   Section = "refunds"
	SectionPrimary   Section = "primary_expenses"
	SectionSecondary Section = "secondary_expenses"
)

// Sections lists the sections in the order they appear in a statement.
var Sections = []Section{SectionFees, SectionRefunds, SectionPrimary, SectionSecondary}

// Origin returns the cardholder tag applied to records of the section.
func (s Section) Origin() Origin {
	switch s {
	case SectionPrimary:
		return OriginPrimary
	case SectionSecondary:
		return OriginSecondary
	default:
		return OriginNone
	}
}

// Title is the human-readable section name used by exports.
func (s Section) Title() string {
	switch s {
	case SectionFees:
		return "Fees Data"
	case SectionRefunds:
		return "Refund Data"
	case SectionPrimary:
		return "Basic Card Expenses"
	case SectionSecondary:
		return "Supplementary Card Expenses"
	default:
		return string(s)
	}
}

// Statement holds everything extracted from one card statement.
type Statement struct {
	Fees              []TransactionRecord
	Refunds           []TransactionRecord
	PrimaryExpenses   []TransactionRecord
	SecondaryExpenses []TransactionRecord

	// Boundaries are the resolved section header lines, in input order.
	Boundaries []string
	// ParseErrors collects transaction lines that fit neither layout.
	ParseErrors []*RecordParseError
	Warnings    []EmptySectionWarning
}

// Records returns the records of one section.
func (s *Statement) Records(section Section) []TransactionRecord {
	switch section {
	case SectionFees:
		return s.Fees
	case SectionRefunds:
		return s.Refunds
	case SectionPrimary:
		return s.PrimaryExpenses
	case SectionSecondary:
		return s.SecondaryExpenses
	default:
		return nil
	}
}

// SetRecords replaces the records of one section.
func (s *Statement) SetRecords(section Section, records []TransactionRecord) {
	switch section {
	case SectionFees:
		s.Fees = records
	case SectionRefunds:
		s.Refunds = records
	case SectionPrimary:
		s.PrimaryExpenses = records
	case SectionSecondary:
		s.SecondaryExpenses = records
	}
}

// Expenses returns primary followed by secondary cardholder expenses.
func (s *Statement) Expenses() []TransactionRecord {
	out := make([]TransactionRecord, 0, len(s.PrimaryExpenses)+len(s.SecondaryExpenses))
	out = append(out, s.PrimaryExpenses...)
	return append(out, s.SecondaryExpenses...)
}

// Counts returns the number of records per section.
func (s *Statement) Counts() map[Section]int {
	counts := make(map[Section]int, len(Sections))
	for _, section := range Sections {
		counts[section] = len(s.Records(section))
	}
	return counts
}

// Total is the number of records across all sections.
func (s *Statement) Total() int {
	n := 0
	for _, section := range Sections {
		n += len(s.Records(section))
	}
	return n
}

// Err joins all record parse errors, or returns nil when every line parsed.
func (s *Statement) Err() error {
	if len(s.ParseErrors) == 0 {
		return nil
	}
	errs := make([]error, len(s.ParseErrors))
	for i, e := range s.ParseErrors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
