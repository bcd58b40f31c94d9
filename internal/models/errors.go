package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrStructure   = errors.New("unexpected statement structure")
	ErrRecordParse = errors.New("unparseable transaction line")
)

// StructureError indicates the statement does not carry the expected section headers.
// No section output is produced when it is returned.
type StructureError struct {
	Found      int      `json:"found"`
	Need       int      `json:"need"`
	Boundaries []string `json:"boundaries,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("statement structure: resolved %d section boundaries, need %d", e.Found, e.Need)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Boundaries) > 0 {
		msg += " [" + strings.Join(e.Boundaries, " | ") + "]"
	}
	return msg
}

func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// RecordParseError indicates a transaction line that fits neither token layout.
type RecordParseError struct {
	Section Section `json:"section,omitempty"`
	Line    string  `json:"line"`
	Reason  string  `json:"reason"`
}

func (e *RecordParseError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("cannot parse transaction line %q: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: cannot parse transaction line %q: %s", e.Section, e.Line, e.Reason)
}

func (e *RecordParseError) Is(target error) bool {
	return target == ErrRecordParse
}

// EmptySectionWarning marks a section that had no transaction lines at all.
// It is not an error: a cardholder may simply have had no fees that month.
type EmptySectionWarning struct {
	Section Section `json:"section"`
}

func (w EmptySectionWarning) String() string {
	return fmt.Sprintf("section %s has no transactions", w.Section)
}
