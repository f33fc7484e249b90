package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// EmailPattern only requires local@domain.tld, survey answers are free text
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// RUTPattern accepts formatted and bare RUTs, e.g. 12.345.678-5 or 12345678K
	RUTPattern = `^[0-9]{1,2}\.?[0-9]{3}\.?[0-9]{3}-?[0-9kK]$`

	// Admission years outside this range are treated as typos
	MinAdmissionYear = 1950
	MaxAdmissionYear = 2100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	RUT   *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	RUT:   regexp.MustCompile(RUTPattern),
}

// IsEmail reports whether value looks like local@domain.tld
func IsEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(value))
}

// IsRUT reports whether value has the shape of a RUT. Check digits are not verified.
func IsRUT(value string) bool {
	return CompiledPatterns.RUT.MatchString(strings.TrimSpace(value))
}

// IsAdmissionYear reports whether year is inside the accepted range
func IsAdmissionYear(year int) bool {
	return year >= MinAdmissionYear && year <= MaxAdmissionYear
}
