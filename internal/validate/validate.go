// Package validate holds the pure field validators used during candidate
// intake. All functions are stateless and side-effect free.
package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// emailPattern is a deliberately permissive RFC-lite check: local part,
// an @, a domain, and a TLD of at least two letters. Anchored so the whole
// string must match.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var nonDigit = regexp.MustCompile(`\D`)

// Email reports whether s looks like a valid email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s contains a plausible phone number: after stripping
// every non-digit character, between 10 and 15 digits remain (covers
// international formats like "+1 (555) 123-4567").
func Phone(s string) bool {
	digits := nonDigit.ReplaceAllString(s, "")
	return len(digits) >= 10 && len(digits) <= 15
}

// FreeText reports whether the trimmed input is at least minLen runes long.
func FreeText(s string, minLen int) bool {
	return len([]rune(strings.TrimSpace(s))) >= minLen
}

// ExperienceYears reports whether s parses as a number between 0 and 50
// inclusive. Non-numeric input is simply invalid, not an error.
func ExperienceYears(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return v >= 0 && v <= 50
}
