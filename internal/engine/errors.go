package engine

import (
	"errors"
	"fmt"
)

// RuntimeError is returned when an evaluation cannot proceed.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidTimezone indicates an unknown IANA zone identifier.
	ErrCodeInvalidTimezone RuntimeErrorCode = "INVALID_TIMEZONE"

	// ErrCodeClockSkew indicates "now" is earlier than the earliest logged day.
	ErrCodeClockSkew RuntimeErrorCode = "CLOCK_SKEW"

	// ErrCodeInvalidCatalog indicates the milestone catalog failed validation.
	ErrCodeInvalidCatalog RuntimeErrorCode = "INVALID_CATALOG"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsClockSkew reports whether err is a clock skew error.
// Uses errors.As to handle wrapped errors.
func IsClockSkew(err error) bool {
	return hasCode(err, ErrCodeClockSkew)
}

// IsInvalidTimezone reports whether err is an invalid timezone error.
func IsInvalidTimezone(err error) bool {
	return hasCode(err, ErrCodeInvalidTimezone)
}

// IsInvalidCatalog reports whether err is a catalog validation error.
func IsInvalidCatalog(err error) bool {
	return hasCode(err, ErrCodeInvalidCatalog)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewClockSkewError reports that today precedes the earliest logged day.
func NewClockSkewError(today, earliest fmt.Stringer) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeClockSkew,
		Message: fmt.Sprintf("now (%s) is earlier than the first logged day (%s)", today, earliest),
		Details: map[string]string{
			"today":    today.String(),
			"earliest": earliest.String(),
		},
	}
}

// NewInvalidTimezoneError wraps a zone lookup failure.
func NewInvalidTimezoneError(name string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidTimezone,
		Message: cause.Error(),
		Details: map[string]string{"timezone": name},
	}
}
