package model

import "strings"

// SameExercise compares exercise names ignoring case and surrounding space.
func SameExercise(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
