// Package sheet exports zenith history to an xlsx workbook and reads it
// back.
//
// Import is forgiving: header names are matched loosely, bad rows are
// skipped, and a missing or malformed sheet contributes nothing.
package sheet

import (
	"errors"

	"github.com/theirongolddev/zenith/internal/model"
)

// Sheet names written by Export.
const (
	BudgetSheet = "Budget Transactions"
	GymSheet    = "Gym Workouts"
	WeightSheet = "Weight Log"
)

// ErrNoData is returned by Export when there is nothing to write.
var ErrNoData = errors.New("no data to export")

// Data is the exportable history.
type Data struct {
	Transactions []model.Transaction
	Workouts     []model.Workout
	Weights      []model.WeightEntry
}

// Empty reports whether d holds no records.
func (d Data) Empty() bool {
	return len(d.Transactions) == 0 && len(d.Workouts) == 0 && len(d.Weights) == 0
}

// Counts is how many records an export or import touched.
type Counts struct {
	Transactions int `json:"transactions"`
	Workouts     int `json:"workouts"`
	Sets         int `json:"sets"`
	Weights      int `json:"weights"`
}

// Total is the number of top-level records.
func (c Counts) Total() int { return c.Transactions + c.Workouts + c.Weights }

// CountsOf tallies d.
func CountsOf(d Data) Counts {
	c := Counts{
		Transactions: len(d.Transactions),
		Workouts:     len(d.Workouts),
		Weights:      len(d.Weights),
	}
	for _, w := range d.Workouts {
		for _, e := range w.Exercises {
			c.Sets += len(e.Sets)
		}
	}
	return c
}
