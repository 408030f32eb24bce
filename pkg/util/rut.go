package util

import (
	"fmt"
	"strings"
)

// NormalizeRut strips dots and hyphens and upper-cases the check digit, so
// "11.111.111-1" and "11111111-1" compare equal.
func NormalizeRut(rut string) string {
	cleaned := strings.NewReplacer(".", "", "-", "", " ", "").Replace(rut)
	return strings.ToUpper(cleaned)
}

// FormatRut renders a normalized RUT in the canonical dotted form with the
// check digit after the hyphen (e.g. "11.111.111-1").
func FormatRut(rut string) string {
	normalized := NormalizeRut(rut)
	if len(normalized) < 2 {
		return normalized
	}

	body := normalized[:len(normalized)-1]
	check := normalized[len(normalized)-1:]

	var parts []string
	for len(body) > 3 {
		parts = append([]string{body[len(body)-3:]}, parts...)
		body = body[:len(body)-3]
	}
	parts = append([]string{body}, parts...)

	return fmt.Sprintf("%s-%s", strings.Join(parts, "."), check)
}

// IsValidRut verifies a Chilean RUT against its modulo-11 check digit.
// Accepts dotted, hyphenated or bare forms; the check digit may be 0-9 or K.
func IsValidRut(rut string) bool {
	normalized := NormalizeRut(rut)
	if len(normalized) < 2 {
		return false
	}

	body := normalized[:len(normalized)-1]
	check := normalized[len(normalized)-1]

	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch remainder := 11 - (sum % 11); remainder {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + remainder)
	}

	return check == expected
}
