// Package aurige applies exports of the national Aurige registry to
// candidates. The registry decides whether a candidate's identity is
// validated and when they passed the theory exam.
package aurige

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	dErrors "candilib/pkg/domain-errors"
)

// existingOK is the registry status of a recognised candidate. Any other
// value ("NOK", "NOK Nom", "NOK email"...) leaves the candidate unvalidated.
const existingOK = "OK"

// Record is one candidate line of an Aurige export.
type Record struct {
	CodeNEPH       string `json:"codeNeph"`
	BirthName      string `json:"nomNaissance"`
	Email          string `json:"email"`
	Existing       string `json:"candidatExistant"`
	TheoryPassedOn string `json:"dateReussiteETG"`

	theoryPassedAt *time.Time
	normalizedNEPH string
}

// Validated reports whether the registry recognised the candidate.
func (r Record) Validated() bool {
	return strings.EqualFold(strings.TrimSpace(r.Existing), existingOK)
}

// prepare checks the record and parses its theory pass date, interpreted
// as midnight in loc.
func (r *Record) prepare(loc *time.Location) error {
	r.normalizedNEPH = strings.TrimSpace(r.CodeNEPH)
	if r.normalizedNEPH == "" {
		return dErrors.New(dErrors.CodeValidation, "codeNeph is required")
	}
	raw := strings.TrimSpace(r.TheoryPassedOn)
	if raw == "" {
		r.theoryPassedAt = nil
		return nil
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("dateReussiteETG %q is not a YYYY-MM-DD date", raw))
	}
	r.theoryPassedAt = &d
	return nil
}

// Decode reads an export: a JSON array of records. It streams the array so
// large exports are not held twice in memory.
func Decode(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read aurige export: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("read aurige export: expected a JSON array")
	}
	records := make([]Record, 0)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("read aurige record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read aurige export: %w", err)
	}
	return records, nil
}
