package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule validates a raw input string. On success it returns the canonical
// value, otherwise a *FieldError describing the rejection.
type Rule func(raw, label string) (string, error)

// FieldError is a rejection reported for a single input field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	phoneSeparators = regexp.MustCompile(`[\s-]`)
	phonePattern    = regexp.MustCompile(`^(?:\+?91)?(\d{10})$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

func reject(label, format string, args ...interface{}) (string, error) {
	return "", &FieldError{Field: label, Message: label + " " + fmt.Sprintf(format, args...)}
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) == "" {
		return fallback
	}
	return label
}

// Phone accepts 10 digits, optionally prefixed with 91 or +91. Spaces and
// hyphens are ignored. The canonical form is the bare 10 digits.
func Phone(raw, label string) (string, error) {
	label = labelOr(label, "Phone number")
	m := phonePattern.FindStringSubmatch(phoneSeparators.ReplaceAllString(raw, ""))
	if m == nil {
		return reject(label, "must be 10 digits (e.g., 9876543210 or +91-9876543210)")
	}
	return m[1], nil
}

func Email(raw, label string) (string, error) {
	label = labelOr(label, "Email")
	if !emailPattern.MatchString(raw) {
		return reject(label, "has an invalid format (e.g., user@example.com)")
	}
	return raw, nil
}

// Date accepts a strict YYYY-MM-DD calendar date.
func Date(raw, label string) (string, error) {
	label = labelOr(label, "Date")
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return reject(label, "must be in YYYY-MM-DD format (e.g., 2024-12-31)")
	}
	return raw, nil
}

// Time accepts a strict 24-hour HH:MM time.
func Time(raw, label string) (string, error) {
	label = labelOr(label, "Time")
	if !timePattern.MatchString(raw) {
		return reject(label, "must be in HH:MM format (e.g., 14:30)")
	}
	if _, err := time.Parse(TimeLayout, raw); err != nil {
		return reject(label, "must be in HH:MM format (e.g., 14:30)")
	}
	return raw, nil
}

// ID accepts an integer greater than zero and returns its decimal form.
func ID(raw, label string) (string, error) {
	label = labelOr(label, "ID")
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return reject(label, "must be a valid number")
	}
	if n <= 0 {
		return reject(label, "must be a positive number")
	}
	return strconv.Itoa(n), nil
}

func Name(raw, label string) (string, error) {
	label = labelOr(label, "Name")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !namePattern.MatchString(raw) {
		return reject(label, "must contain only letters and spaces")
	}
	return trimmed, nil
}

func NotEmpty(raw, label string) (string, error) {
	label = labelOr(label, "Value")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return reject(label, "cannot be empty")
	}
	return trimmed, nil
}
