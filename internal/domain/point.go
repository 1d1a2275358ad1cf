package domain

import "strings"

// Represents a named star system resolved to galactic coordinates.
// A SystemPoint is immutable once created; Name keeps the casing the
// coordinate source reported, while matching is case-insensitive.
type SystemPoint struct {
	Name   string
	Coords Coordinates
}

// NormalizeName produces the canonical cache/matching key for a system name:
// surrounding whitespace trimmed, interior runs collapsed, case-folded.
// Two names identify the same system exactly when their normalized forms
// are equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
