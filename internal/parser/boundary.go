package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// Section headers with a fixed text.
var fixedBoundaries = map[string]bool{
	"PAYMENTS":                   true,
	"INTERESTS, FEES & VAT":      true,
	"REFUND, REVERSAL & CREDITS": true,
}

// Card section headers embed the cardholder name after these prefixes.
var variableBoundaryPrefixes = []string{"BASIC CARD", "SUPPLEMENTARY CARD"}

// Offsets of each role in the resolved boundary list. Offset 0 is a leading
// marker that does not start a section.
const (
	offsetLeading = iota
	offsetFees
	offsetRefunds
	offsetPrimary
	offsetSecondary

	minBoundaries
)

var sectionOffsets = map[models.Section]int{
	models.SectionFees:      offsetFees,
	models.SectionRefunds:   offsetRefunds,
	models.SectionPrimary:   offsetPrimary,
	models.SectionSecondary: offsetSecondary,
}

// Boundary is a section header line and its position in the cleaned line sequence.
type Boundary struct {
	Text  string
	Index int
}

// Boundaries binds resolved headers to the section each one starts.
type Boundaries struct {
	Leading   Boundary
	Fees      Boundary
	Refunds   Boundary
	Primary   Boundary
	Secondary Boundary
	// Extra holds headers after the secondary card header; they do not start sections.
	Extra []Boundary
}

// IsBoundary reports whether a line is one of the real section headers.
func IsBoundary(line string) bool {
	return IsBoundaryCandidate(line) && inVocabulary(line)
}

// inVocabulary reports whether a header-shaped line names a statement section.
func inVocabulary(line string) bool {
	if fixedBoundaries[line] {
		return true
	}
	for _, prefix := range variableBoundaryPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// FindBoundaries returns every section header in appearance order.
func FindBoundaries(lines []string) []Boundary {
	return findBoundaries(ClassifyLines(lines, StrictDate))
}

// findBoundaries keeps the LineBoundary entries whose text is a known header.
// Index is the position in the classified stream.
func findBoundaries(lines []ClassifiedLine) []Boundary {
	var found []Boundary
	for i, cl := range lines {
		if cl.Kind == LineBoundary && inVocabulary(cl.Text) {
			found = append(found, Boundary{Text: cl.Text, Index: i})
		}
	}
	return found
}

// ResolveBoundaries finds the section headers and binds them to their roles.
// It fails with a *models.StructureError when fewer than five headers are present.
func ResolveBoundaries(lines []string) (*Boundaries, error) {
	return resolveBoundaries(ClassifyLines(lines, StrictDate))
}

func resolveBoundaries(lines []ClassifiedLine) (*Boundaries, error) {
	found := findBoundaries(lines)
	if len(found) < minBoundaries {
		return nil, &models.StructureError{
			Found:      len(found),
			Need:       minBoundaries,
			Boundaries: boundaryTexts(found),
			Reason:     "document does not match the card statement section layout",
		}
	}
	return &Boundaries{
		Leading:   found[offsetLeading],
		Fees:      found[offsetFees],
		Refunds:   found[offsetRefunds],
		Primary:   found[offsetPrimary],
		Secondary: found[offsetSecondary],
		Extra:     found[minBoundaries:],
	}, nil
}

// List returns all boundaries in appearance order.
func (b *Boundaries) List() []Boundary {
	list := []Boundary{b.Leading, b.Fees, b.Refunds, b.Primary, b.Secondary}
	return append(list, b.Extra...)
}

// Texts returns the header lines in appearance order.
func (b *Boundaries) Texts() []string {
	return boundaryTexts(b.List())
}

// Start returns the header that opens a section.
func (b *Boundaries) Start(section models.Section) (Boundary, error) {
	offset, ok := sectionOffsets[section]
	if !ok {
		return Boundary{}, fmt.Errorf("unknown section %q", section)
	}
	return b.List()[offset], nil
}

// End returns the header that closes a section, or false when the section
// runs to the end of the statement.
func (b *Boundaries) End(section models.Section) (Boundary, bool) {
	switch section {
	case models.SectionFees:
		return b.Refunds, true
	case models.SectionRefunds:
		return b.Primary, true
	case models.SectionPrimary:
		return b.Secondary, true
	default:
		return Boundary{}, false
	}
}

// Segment cuts the lines of one section out of the cleaned line sequence.
func (b *Boundaries) Segment(lines []string, section models.Section) ([]string, error) {
	start, end, err := b.span(section)
	if err != nil {
		return nil, err
	}
	return SegmentAt(lines, start, end), nil
}

// span returns the line indices bounding a section; end is -1 for the last section.
func (b *Boundaries) span(section models.Section) (start, end int, err error) {
	first, err := b.Start(section)
	if err != nil {
		return 0, 0, err
	}
	last, ok := b.End(section)
	if !ok {
		return first.Index, -1, nil
	}
	return first.Index, last.Index, nil
}

func boundaryTexts(bs []Boundary) []string {
	texts := make([]string, len(bs))
	for i, b := range bs {
		texts[i] = b.Text
	}
	return texts
}
