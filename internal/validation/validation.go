package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Result reports whether a field passed validation together with the
// ordered list of rule violations. The same rule set backs both the API
// boundary and any client-side preflight; the server copy is authoritative.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func ok() Result {
	return Result{Valid: true}
}

func fail(errs ...string) Result {
	return Result{Valid: false, Errors: errs}
}

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

func ValidateName(name string) Result {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fail("Name is required")
	}
	// Length limits count characters, not bytes.
	if utf8.RuneCountInString(trimmed) < 2 {
		return fail("Name must be at least 2 characters")
	}
	if utf8.RuneCountInString(trimmed) > 50 {
		return fail("Name cannot exceed 50 characters")
	}
	return ok()
}

func ValidateEmail(email string) Result {
	if strings.TrimSpace(email) == "" {
		return fail("Email is required")
	}
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fail("Invalid email format")
	}
	return ok()
}

// ValidatePassword checks the strength rules for registration and
// password change: length 8-128, at least one lowercase letter, one
// uppercase letter and one digit.
func ValidatePassword(password string) Result {
	var errs []string
	if utf8.RuneCountInString(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters")
	}
	if utf8.RuneCountInString(password) > 128 {
		errs = append(errs, "Password cannot exceed 128 characters")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !hasUpper {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		errs = append(errs, "Password must contain at least one number")
	}

	if len(errs) > 0 {
		return fail(errs...)
	}
	return ok()
}

func ValidateTaskTitle(title string) Result {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fail("Title is required and cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return fail("Title cannot exceed 100 characters")
	}
	return ok()
}

func ValidateTaskDescription(description string) Result {
	if utf8.RuneCountInString(description) > 500 {
		return fail("Description cannot exceed 500 characters")
	}
	return ok()
}

func ValidatePriority(priority string) Result {
	switch priority {
	case "", "Low", "Medium", "High":
		return ok()
	}
	return fail("Priority must be Low, Medium, or High")
}

// ValidateDueDate checks a due date against "now": the date must not fall
// before the current day. Time-of-day is normalized to midnight on both
// sides so a due date of today passes.
func ValidateDueDate(due time.Time, now time.Time) Result {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fail("Due date cannot be in the past")
	}
	return ok()
}

// ParseDueDate accepts the two wire formats the frontend sends: a bare
// calendar date or a full RFC 3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// NormalizeCompleted collapses the accepted completion representations to
// a boolean. The canonical wire form is a JSON boolean; the legacy string
// "Yes" is still accepted as true. Everything else is false.
func NormalizeCompleted(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "Yes"
	}
	return false
}
