package utils

import "testing"

func TestValidGSTIN(t *testing.T) {
	valid := []string{
		"29ABCDE1234FlZ5", // lower case normalizes
		"29ABCDE1234F1Z5",
		"07AAACI1234A1Z2",
	}
	for _, v := range valid {
		if !ValidGSTIN(v) {
			t.Fatalf("expected valid GSTIN: %s", v)
		}
	}

	invalid := []string{
		"",
		"29ABCDE1234F1Z",    // too short
		"29ABCDE1234F1A5",   // missing Z
		"XXABCDE1234F1Z5",   // non-numeric state code
		"29abcde1234f0z5",   // entity digit 0 not allowed
		"29ABCDE12341F1Z5",  // too long
	}
	for _, v := range invalid {
		if ValidGSTIN(v) {
			t.Fatalf("expected invalid GSTIN: %s", v)
		}
	}
}

func TestGSTINStateCode(t *testing.T) {
	if got := GSTINStateCode("29ABCDE1234F1Z5"); got != "29" {
		t.Fatalf("state code: want 29, got %s", got)
	}
	if got := GSTINStateCode("bogus"); got != "" {
		t.Fatalf("bogus GSTIN should give empty state code, got %s", got)
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "\t 98765 43210 "}
	for _, v := range valid {
		if !ValidPhone(v) {
			t.Fatalf("expected valid phone: %q", v)
		}
	}
	invalid := []string{"", "12345", "5876543210", "98765432100", "abcdefghij"}
	for _, v := range invalid {
		if ValidPhone(v) {
			t.Fatalf("expected invalid phone: %q", v)
		}
	}
}
