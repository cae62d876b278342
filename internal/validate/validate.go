// ABOUTME: Client-side form validation producing per-field problems
// ABOUTME: First unsatisfied rule wins per field; the server still re-validates

// Package validate holds the form checks that run before a request is
// sent. Validation here only saves a round trip; the services apply
// the same rules authoritatively.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Problem is one failed check on one form field.
type Problem struct {
	Field   string
	Message string
}

// emailPattern is deliberately loose: something, an @, something, a
// dot, something. Deliverability is the server's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// AdultAge is the minimum age for registration, in full years.
const AdultAge = 18

// Email checks basic address shape.
func Email(field, value string) *Problem {
	if !emailPattern.MatchString(value) {
		return &Problem{Field: field, Message: "Valid email is required"}
	}
	return nil
}

// Password checks minimum length.
func Password(field, value string) *Problem {
	if len(value) < MinPasswordLength {
		return &Problem{Field: field, Message: "Password must be at least 6 characters long"}
	}
	return nil
}

// Required rejects empty and whitespace-only values.
func Required(field, label, value string) *Problem {
	if strings.TrimSpace(value) == "" {
		return &Problem{Field: field, Message: label + " is required"}
	}
	return nil
}

// PositiveNumber parses the value and requires it to be greater than
// zero.
func PositiveNumber(field, label, value string) *Problem {
	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || num <= 0 {
		return &Problem{Field: field, Message: label + " must be a positive number"}
	}
	return nil
}

// FutureDate requires the instant to be strictly after now.
func FutureDate(field, label string, value, now time.Time) *Problem {
	if !value.After(now) {
		return &Problem{Field: field, Message: label + " must be in the future"}
	}
	return nil
}

// DateOfBirth requires the person to have had their eighteenth
// birthday as of now. Age counts full years, so a birthday later in
// the current year has not happened yet.
func DateOfBirth(field string, value, now time.Time) *Problem {
	if value.IsZero() {
		return &Problem{Field: field, Message: "Date of birth is required"}
	}

	age := now.Year() - value.Year()
	if now.Month() < value.Month() ||
		(now.Month() == value.Month() && now.Day() < value.Day()) {
		age--
	}
	if age < AdultAge {
		return &Problem{Field: field, Message: "You must be at least 18 years old"}
	}
	return nil
}

// Rating requires a whole number from 1 to 5.
func Rating(field string, value int) *Problem {
	if value < 1 || value > 5 {
		return &Problem{Field: field, Message: "Rating must be between 1 and 5"}
	}
	return nil
}

// Collect appends the non-nil problems, keeping form-level validation
// call sites flat.
func Collect(problems ...*Problem) []Problem {
	var out []Problem
	for _, p := range problems {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// FirstMessage returns the message for the field, or empty when the
// field has no problem recorded.
func FirstMessage(problems []Problem, field string) string {
	for _, p := range problems {
		if p.Field == field {
			return p.Message
		}
	}
	return ""
}
