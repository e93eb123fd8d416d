package model

import "strings"

// Lead field keys as they appear (normalized) in the uploaded CSV header.
const (
	FieldName        = "name"
	FieldRole        = "role"
	FieldCompany     = "company"
	FieldIndustry    = "industry"
	FieldLocation    = "location"
	FieldLinkedInBio = "linkedin_bio"
)

// RequiredLeadFields must all be present and non-blank for a lead to count
// as complete.
var RequiredLeadFields = []string{
	FieldName,
	FieldRole,
	FieldCompany,
	FieldIndustry,
	FieldLocation,
	FieldLinkedInBio,
}

// Lead is one uploaded row keyed by normalized column header. Columns beyond
// the required set are kept as-is. A Lead is never mutated after ingestion.
type Lead map[string]string

// Get returns the raw value of a field, or "" when absent.
func (l Lead) Get(field string) string {
	return l[field]
}

// Has reports whether the field is present and non-blank after trimming.
func (l Lead) Has(field string) bool {
	v, ok := l[field]
	return ok && strings.TrimSpace(v) != ""
}

// Complete reports whether every required field is present and non-blank.
func (l Lead) Complete() bool {
	for _, f := range RequiredLeadFields {
		if !l.Has(f) {
			return false
		}
	}
	return true
}
