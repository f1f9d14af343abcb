package milestone

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E299).
const (
	ErrEmptyID         = "E201" // milestone id is empty
	ErrUnknownKind     = "E202" // kind is not one of Kinds
	ErrThresholdTooLow = "E203" // threshold must be >= 1
	ErrDuplicateID     = "E204" // id declared twice
	ErrEmptyTitle      = "E205" // title is required for display
	ErrEmptyCatalog    = "E206" // catalog declares no milestones
)

// ValidationError describes one problem with a catalog rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors collects every problem found in a catalog.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a catalog meant for display: ValidateRules plus a
// non-empty title on every rule. It reports all problems rather than
// stopping at the first one.
func Validate(rules []Rule) ValidationErrors {
	return validate(rules, true)
}

// ValidateRules checks only what evaluation depends on. Titles are display
// metadata, so rules built in code may leave them empty.
func ValidateRules(rules []Rule) ValidationErrors {
	return validate(rules, false)
}

func validate(rules []Rule, requireTitle bool) ValidationErrors {
	var errs ValidationErrors
	if len(rules) == 0 {
		return ValidationErrors{{
			Field:   "milestone",
			Message: "catalog declares no milestones",
			Code:    ErrEmptyCatalog,
		}}
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		field := fmt.Sprintf("milestone[%d]", i)
		if r.ID != "" {
			field = "milestone." + r.ID
		}

		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "id must be non-empty", Code: ErrEmptyID})
		} else if seen[r.ID] {
			errs = append(errs, ValidationError{Field: field, Message: "id is declared more than once", Code: ErrDuplicateID})
		}
		seen[r.ID] = true

		if !r.Kind.Valid() {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("unknown kind %q (want one of %v)", r.Kind, Kinds),
				Code:    ErrUnknownKind,
			})
		}
		if r.Threshold < 1 {
			errs = append(errs, ValidationError{
				Field:   field + ".threshold",
				Message: fmt.Sprintf("threshold must be at least 1, got %d", r.Threshold),
				Code:    ErrThresholdTooLow,
			})
		}
		if requireTitle && strings.TrimSpace(r.Title) == "" {
			errs = append(errs, ValidationError{Field: field + ".title", Message: "title is required", Code: ErrEmptyTitle})
		}
	}
	return errs
}
