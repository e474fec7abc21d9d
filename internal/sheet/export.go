package sheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	budgetHeader = []any{"Date", "Label", "Amount", "Type"}
	gymHeader    = []any{"Date", "Day Type", "Exercise", "Set #", "Reps", "Weight (kg)", "Notes"}
	weightHeader = []any{"Date", "Weight (kg)"}
)

// Export writes d to a new workbook at path.
func Export(path string, d Data) (Counts, error) {
	if d.Empty() {
		return Counts{}, ErrNoData
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return Counts{}, fmt.Errorf("creating export dir: %w", err)
	}
	f, err := build(d)
	if err != nil {
		return Counts{}, err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return Counts{}, fmt.Errorf("saving workbook: %w", err)
	}
	return CountsOf(d), nil
}

// Write streams the workbook for d to w.
func Write(w io.Writer, d Data) (Counts, error) {
	if d.Empty() {
		return Counts{}, ErrNoData
	}
	f, err := build(d)
	if err != nil {
		return Counts{}, err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return Counts{}, fmt.Errorf("writing workbook: %w", err)
	}
	return CountsOf(d), nil
}

func build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	var rows [][]any
	for _, t := range d.Transactions {
		rows = append(rows, []any{t.Date, safeCell(t.Label), t.Amount, string(t.Type)})
	}
	if err := writeSheet(f, BudgetSheet, budgetHeader, rows, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, w := range d.Workouts {
		for _, e := range w.Exercises {
			for i, s := range e.Sets {
				notes := ""
				if i == 0 {
					notes = safeCell(e.Notes)
				}
				rows = append(rows, []any{w.Date, w.DayType, safeCell(e.Name), i + 1, s.Reps, s.Weight, notes})
			}
		}
	}
	if err := writeSheet(f, GymSheet, gymHeader, rows, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, w := range d.Weights {
		rows = append(rows, []any{w.Date, w.Weight})
	}
	if err := writeSheet(f, WeightSheet, weightHeader, rows, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(BudgetSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing %q header: %w", name, err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %q header: %w", name, err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return fmt.Errorf("writing %q row %d: %w", name, i+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(name, "A", last, 16)
}

// safeCell keeps spreadsheet apps from evaluating text as a formula.
func safeCell(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	switch t[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
