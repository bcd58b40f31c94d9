package parser

import (
	"github.com/insightdelivered/cardstatement/internal/models"
)

// Parser defines the interface for card statement parsers.
type Parser interface {
	// Parse takes the ordered text lines of a statement and returns its sections.
	Parse(lines []string) (*models.Statement, error)
	// Name returns the human-readable statement type.
	Name() string
}

// Option configures a CardStatementParser.
type Option func(*CardStatementParser)

// WithDateDetector selects how transaction lines are recognised.
func WithDateDetector(d DateDetector) Option {
	return func(p *CardStatementParser) {
		if d != nil {
			p.dates = d
		}
	}
}

// WithStrict makes Parse fail on the first unparseable transaction line
// instead of collecting parse errors on the statement.
func WithStrict(strict bool) Option {
	return func(p *CardStatementParser) {
		p.strict = strict
	}
}

// CardStatementParser handles credit card statements laid out as
//
//	<leading header>
//	<fees header>       fee lines
//	<refunds header>    refund lines
//	BASIC CARD <name>   primary cardholder lines
//	SUPPLEMENTARY CARD <name> secondary cardholder lines
//
// Transaction lines look like "15-03-2024 AMAZON RETAIL USD 120.50 130.75".
// It holds no mutable state and is safe for concurrent use.
type CardStatementParser struct {
	dates  DateDetector
	strict bool
}

// New returns a card statement parser. The strict date detector and
// collect-all error policy are the defaults.
func New(opts ...Option) *CardStatementParser {
	p := &CardStatementParser{dates: StrictDate}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CardStatementParser) Name() string {
	return "Credit Card Statement"
}

// DateDetector returns the configured transaction date detector.
func (p *CardStatementParser) DateDetector() DateDetector {
	return p.dates
}

// Parse classifies every line once, drops noise, resolves the section headers
// and parses each section. A *models.StructureError means no sections were
// produced. In strict mode the first *models.RecordParseError is returned
// instead of a statement.
func (p *CardStatementParser) Parse(lines []string) (*models.Statement, error) {
	cleaned := dropNoise(ClassifyLines(lines, p.dates))

	bounds, err := resolveBoundaries(cleaned)
	if err != nil {
		return nil, err
	}

	stmt := &models.Statement{Boundaries: bounds.Texts()}
	for _, section := range models.Sections {
		start, end, err := bounds.span(section)
		if err != nil {
			return nil, err
		}
		records, failures := parseClassified(section, SegmentAt(cleaned, start, end))
		if p.strict && len(failures) > 0 {
			return nil, failures[0]
		}
		if len(records) == 0 && len(failures) == 0 {
			stmt.Warnings = append(stmt.Warnings, models.EmptySectionWarning{Section: section})
		}
		stmt.SetRecords(section, records)
		stmt.ParseErrors = append(stmt.ParseErrors, failures...)
	}
	return stmt, nil
}

// Parse runs the default parser over the lines.
func Parse(lines []string) (*models.Statement, error) {
	return New().Parse(lines)
}

var _ Parser = (*CardStatementParser)(nil)
