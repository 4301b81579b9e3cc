package domain

import "strings"

// ValidationError reports a rejected input value. Field is the JSON name of
// the offending field when one applies.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MissingFieldsError reports required fields that were absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// Validation messages shared by every lead entry point.
const (
	MsgContactRequired  = "Either email or phone number must be provided"
	MsgLocationRequired = "Location fields (country, state, city) are required"
	MsgUserRequired     = "User information is required"
)
