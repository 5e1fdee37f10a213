package mfa

import (
	"testing"

	"numis/console/internal/platform/validation"
)

func TestNormalizeCode(t *testing.T) {
	tests := map[string]string{
		"123456":      "123456",
		" 123 456 ":   "123456",
		"1 2 3 4 5 6": "123456",
		"":            "",
	}
	for in, want := range tests {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidCode(t *testing.T) {
	valid := []string{"000000", "123456", "999999"}
	invalid := []string{"", "12345", "1234567", "12345a", "１２３４５６", "12-456"}
	for _, c := range valid {
		if !ValidCode(c) {
			t.Errorf("ValidCode(%q) = false", c)
		}
	}
	for _, c := range invalid {
		if ValidCode(c) {
			t.Errorf("ValidCode(%q) = true", c)
		}
	}
}

func TestCheckCode(t *testing.T) {
	code, err := CheckCode(" 123 456")
	if err != nil || code != "123456" {
		t.Fatalf("CheckCode = %q, %v", code, err)
	}
	for _, in := range []string{"", "   ", "12345", "abcdef"} {
		_, err := CheckCode(in)
		if _, ok := validation.As(err); !ok {
			t.Errorf("CheckCode(%q) err = %v, want validation error", in, err)
		}
	}
}
