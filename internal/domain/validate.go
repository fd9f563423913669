package domain

import (
	"strings"
	"time"
)

// MinYear bounds the year metadata; nothing in the collection predates it.
const MinYear = 1900

// NewRequest carries the user-supplied fields of a create call.
type NewRequest struct {
	Text        string `json:"text"`
	SubmittedBy string `json:"submittedBy"`
	Priority    bool   `json:"priority"`
	Year        int    `json:"year,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Validate applies the store's own rules: text and submittedBy must be
// non-empty. Year and type are opaque to the store and not checked here.
func (n NewRequest) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return ValidationError{Field: "text", Msg: "must not be empty"}
	}
	if strings.TrimSpace(n.SubmittedBy) == "" {
		return ValidationError{Field: "submittedBy", Msg: "must not be empty"}
	}
	return nil
}

// ValidateSubmission applies the stricter client-side form rules before any
// network call: the store rules plus year bounds and a required type.
func (n NewRequest) ValidateSubmission(now time.Time) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.Year < MinYear {
		return ValidationError{Field: "year", Msg: "must be 1900 or later"}
	}
	if n.Year > now.Year() {
		return ValidationError{Field: "year", Msg: "must not be in the future"}
	}
	if strings.TrimSpace(n.Type) == "" {
		return ValidationError{Field: "type", Msg: "must be selected"}
	}
	return nil
}
