package todo

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
)

const (
	MsgRequired        = "This field is required."
	MsgNull            = "This field may not be null."
	MsgNotString       = "Not a valid string."
	MsgTitleBlank      = "Title cannot be empty or contain only whitespace."
	MsgTitleTooShort   = "Title must be at least 3 characters long."
	MsgTitleTooLong    = "Title cannot exceed 200 characters."
	MsgDescriptionLong = "Description cannot exceed 1000 characters."
	MsgStatusInvalid   = "Invalid status. Must be one of: open, in_progress, done"
)

var validate = validator.New()

var (
	titleMinRule       = fmt.Sprintf("min=%d", TitleMinLength)
	titleMaxRule       = fmt.Sprintf("max=%d", TitleMaxLength)
	descriptionMaxRule = fmt.Sprintf("max=%d", DescriptionMaxLength)
	statusRule         = "oneof=" + strings.Join(statusNames(), " ")
)

func statusNames() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// Validate checks every present field of p and returns the values to persist.
// When partial is false the title must be present. All field errors are
// collected into a single *ValidationError.
func (p Payload) Validate(partial bool) (Changes, error) {
	var ch Changes
	verr := &ValidationError{}

	if !p.Title.Set {
		if !partial {
			verr.Add("title", MsgRequired)
		}
	} else if s, ok := checkString("title", p.Title, verr); ok {
		if title, msg := ValidateTitle(s); msg != "" {
			verr.Add("title", msg)
		} else {
			ch.Title = &title
		}
	}

	if p.Description.Set {
		if s, ok := checkString("description", p.Description, verr); ok {
			if msg := ValidateDescription(s); msg != "" {
				verr.Add("description", msg)
			} else {
				ch.Description = &s
			}
		}
	}

	if p.Status.Set {
		if s, ok := checkString("status", p.Status, verr); ok {
			if msg := ValidateStatus(s); msg != "" {
				verr.Add("status", msg)
			} else {
				st := Status(s)
				ch.Status = &st
			}
		}
	}

	if !verr.Empty() {
		return Changes{}, verr
	}
	return ch, nil
}

func checkString(name string, f Field, verr *ValidationError) (string, bool) {
	switch {
	case f.Null:
		verr.Add(name, MsgNull)
		return "", false
	case !f.Valid:
		verr.Add(name, MsgNotString)
		return "", false
	}
	return f.Value, true
}

// ValidateTitle returns the trimmed title, or a non-empty message when the
// title is rejected. The upper bound applies to the raw value.
func ValidateTitle(raw string) (string, string) {
	trimmed := strings.TrimSpace(raw)
	if validate.Var(trimmed, "required") != nil {
		return "", MsgTitleBlank
	}
	if validate.Var(trimmed, titleMinRule) != nil {
		return "", MsgTitleTooShort
	}
	if validate.Var(raw, titleMaxRule) != nil {
		return "", MsgTitleTooLong
	}
	return trimmed, ""
}

// ValidateDescription rejects descriptions longer than DescriptionMaxLength
// characters. Whitespace is kept as sent.
func ValidateDescription(desc string) string {
	if desc != "" && validate.Var(desc, descriptionMaxRule) != nil {
		return MsgDescriptionLong
	}
	return ""
}

func ValidateStatus(s string) string {
	if validate.Var(s, statusRule) != nil {
		return MsgStatusInvalid
	}
	return ""
}
