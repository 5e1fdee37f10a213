package mfa

import (
	"strings"

	"numis/console/internal/platform/validation"
)

const otpDigits = 6

// NormalizeCode trims the code and drops inner spaces, so "123 456" becomes "123456".
func NormalizeCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), " ", "")
}

// ValidCode reports whether code (already normalized) is exactly six ASCII digits.
func ValidCode(code string) bool {
	if len(code) != otpDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// CheckCode normalizes code and returns it, or a validation error when it is not six digits.
func CheckCode(code string) (string, error) {
	code = NormalizeCode(code)
	if code == "" {
		return "", validation.New("totp_code", "is required")
	}
	if !ValidCode(code) {
		return "", validation.New("totp_code", "must be 6 digits")
	}
	return code, nil
}
