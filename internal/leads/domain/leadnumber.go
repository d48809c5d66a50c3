package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// leadNumberPattern matches CL-<year>-<5 digits>-<2 digits>.
var leadNumberPattern = regexp.MustCompile(`^CL-\d{4}-\d{5}-\d{2}$`)

// NewLeadNumber generates a human-readable lead number of the form
// CL-<year>-<5 digit random>-<2 digit second>. The number is assigned
// once at first persistence and never regenerated on edit.
func NewLeadNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	serial := int64(0)
	if err == nil {
		serial = n.Int64()
	}
	return fmt.Sprintf("CL-%d-%05d-%02d", now.Year(), serial, now.Second())
}

// ValidLeadNumber reports whether the value matches the lead number format.
func ValidLeadNumber(value string) bool {
	return leadNumberPattern.MatchString(value)
}
