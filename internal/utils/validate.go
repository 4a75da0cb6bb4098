package utils

import (
	"regexp"
	"strings"
)

var (
	// GSTIN: 2-digit state code, 10-char PAN, entity digit, 'Z', checksum.
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	phonePattern = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
)

// ValidGSTIN reports whether value matches the GSTIN format.
func ValidGSTIN(value string) bool {
	return gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(value)))
}

// GSTINStateCode extracts the two-digit state code prefix of a valid GSTIN.
func GSTINStateCode(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !gstinPattern.MatchString(v) {
		return ""
	}
	return v[:2]
}

// ValidPhone reports whether value is a plausible mobile number.
func ValidPhone(value string) bool {
	v := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	return phonePattern.MatchString(v)
}
