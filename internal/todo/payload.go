package todo

import (
	"encoding/json"
)

// Field is a string-valued request field that remembers whether it was sent,
// sent as null, or sent with a non-string JSON value.
type Field struct {
	Set   bool
	Null  bool
	Valid bool
	Value string
}

// UnmarshalJSON never fails so that a wrong type on one field is reported as
// a field error instead of rejecting the whole body.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	f.Valid = true
	f.Value = s
	return nil
}

// Str builds a present, valid Field.
func Str(v string) Field {
	return Field{Set: true, Valid: true, Value: v}
}

// Payload is the writable part of a Todo as received from a client. id and
// created_at are read-only and therefore not decoded.
type Payload struct {
	Title       Field `json:"title"`
	Description Field `json:"description"`
	Status      Field `json:"status"`
}

// Changes holds validated values ready to be applied to a Todo.
type Changes struct {
	Title       *string
	Description *string
	Status      *Status
}
