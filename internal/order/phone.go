package order

import "strings"

// PhoneDigits is the length of a valid normalized phone number.
const PhoneDigits = 11

// NormalizePhone strips everything but ASCII digits.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone accepts input with exactly 11 digits after normalization.
func ValidatePhone(s string) error {
	if len(NormalizePhone(s)) != PhoneDigits {
		return &ValidationError{Field: "phone", Message: "enter a valid phone number"}
	}
	return nil
}

// FormatPhone renders the first 11 digits of s progressively as
// +7 (999) 123-45-67.
func FormatPhone(s string) string {
	d := NormalizePhone(s)
	if len(d) > PhoneDigits {
		d = d[:PhoneDigits]
	}
	switch n := len(d); {
	case n == 0:
		return ""
	case n <= 1:
		return "+" + d
	case n <= 4:
		return "+" + d[:1] + " (" + d[1:]
	case n <= 7:
		return "+" + d[:1] + " (" + d[1:4] + ") " + d[4:]
	case n <= 9:
		return "+" + d[:1] + " (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	default:
		return "+" + d[:1] + " (" + d[1:4] + ") " + d[4:7] + "-" + d[7:9] + "-" + d[9:]
	}
}
