package phone

import "testing"

func TestDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"98765 43210", "9876543210"},
		{"+91-98765-43210", "919876543210"},
		{"(044) 2345", "0442345"},
		{"", ""},
		{"abc", ""},
	}

	for _, tc := range tests {
		if got := Digits(tc.input); got != tc.want {
			t.Errorf("Digits(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsValidMobile(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"9876543210", true},
		{"98765 43210", true},
		{"987654321", false},
		{"+919876543210", false}, // country code makes it 12 digits
		{"", false},
	}

	for _, tc := range tests {
		if got := IsValidMobile(tc.input); got != tc.want {
			t.Errorf("IsValidMobile(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	if got := NormalizeE164("not-a-number"); got != "not-a-number" {
		t.Errorf("NormalizeE164 should return trimmed input on parse failure, got %q", got)
	}
	if got := NormalizeE164("  "); got != "" {
		t.Errorf("NormalizeE164 should trim whitespace-only input, got %q", got)
	}
}
