package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewLeadNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 7, 0, time.UTC)

	for i := 0; i < 20; i++ {
		number := NewLeadNumber(now)
		if !ValidLeadNumber(number) {
			t.Fatalf("generated number %q does not match format", number)
		}
		if !strings.HasPrefix(number, "CL-2026-") {
			t.Fatalf("expected year prefix CL-2026-, got %q", number)
		}
		if !strings.HasSuffix(number, "-07") {
			t.Fatalf("expected second suffix -07, got %q", number)
		}
	}
}

func TestValidLeadNumber(t *testing.T) {
	cases := []struct {
		value string
		valid bool
	}{
		{"CL-2026-12345-59", true},
		{"CL-2026-00001-00", true},
		{"CL-26-12345-59", false},
		{"CL-2026-1234-59", false},
		{"CL-2026-12345-5", false},
		{"XX-2026-12345-59", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidLeadNumber(tc.value); got != tc.valid {
			t.Errorf("%q: expected valid=%v, got %v", tc.value, tc.valid, got)
		}
	}
}
