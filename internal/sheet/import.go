package sheet

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

var strict = bluemonday.StrictPolicy()

// importSpace namespaces the deterministic ids given to imported rows so
// importing the same workbook twice adds nothing new.
var importSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("zenith:sheet-import"))

// column synonyms, already normalized.
var synonyms = map[string][]string{
	"date":     {"date", "day", "when"},
	"label":    {"label", "description", "item", "name", "note"},
	"amount":   {"amount", "amt", "price", "cost", "spent"},
	"type":     {"type", "category", "kind"},
	"daytype":  {"daytype", "split", "session", "workout"},
	"exercise": {"exercise", "movement", "lift"},
	"set":      {"set", "setno", "setnumber"},
	"reps":     {"reps", "repetitions", "rep"},
	"weight":   {"weightkg", "weight", "kg", "load"},
	"notes":    {"notes", "comment", "comments"},
}

var sheetNames = map[string][]string{
	BudgetSheet: {"budgettransactions", "transactions", "budget", "spending"},
	GymSheet:    {"gymworkouts", "workouts", "gym", "training"},
	WeightSheet: {"weightlog", "weights", "weight", "bodyweight"},
}

// Import reads the workbook at path. Only a file that cannot be opened is
// an error.
func Import(path string) (Data, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return read(f), nil
}

// Read is Import for an in-memory workbook.
func Read(r io.Reader) (Data, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Data{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return read(f), nil
}

func read(f *excelize.File) Data {
	var d Data
	if rows := rowsOf(f, BudgetSheet); rows != nil {
		d.Transactions = readTransactions(rows)
	}
	if rows := rowsOf(f, GymSheet); rows != nil {
		d.Workouts = readWorkouts(rows)
	}
	if rows := rowsOf(f, WeightSheet); rows != nil {
		d.Weights = readWeights(rows)
	}
	return d
}

func rowsOf(f *excelize.File, want string) [][]string {
	for _, name := range f.GetSheetList() {
		if !matches(normalize(name), sheetNames[want]) {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			return nil
		}
		return rows
	}
	return nil
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matches accepts exact synonyms and near misses on longer words.
func matches(norm string, candidates []string) bool {
	if norm == "" {
		return false
	}
	for _, c := range candidates {
		if norm == c {
			return true
		}
	}
	for _, c := range candidates {
		if len(c) < 4 {
			continue
		}
		limit := 1
		if len(c) >= 8 {
			limit = 2
		}
		if levenshtein.ComputeDistance(norm, c) <= limit {
			return true
		}
	}
	return false
}

// columns maps each wanted field to its index in header, or -1.
func columns(header []string, fields ...string) map[string]int {
	out := make(map[string]int, len(fields))
	used := make(map[int]bool)
	for _, field := range fields {
		out[field] = -1
		for i, h := range header {
			if used[i] {
				continue
			}
			if matches(normalize(h), synonyms[field]) {
				out[field] = i
				used[i] = true
				break
			}
		}
	}
	return out
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{"2006/01/02", "01-02-06", "1/2/2006", "1/2/06", "02 Jan 2006", "Jan 2, 2006"}

func parseDate(s string) (string, bool) {
	if dates.Valid(s) {
		return s, true
	}
	if len(s) > 10 {
		if d := s[:10]; dates.Valid(d) {
			return d, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dates.ToISO(t), true
		}
	}
	return "", false
}

func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer("₹", "", ",", "", "kg", "", "KG", "", "Rs", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cleanText(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "'")
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func importID(kind string, parts ...string) string {
	return uuid.NewSHA1(importSpace, []byte(kind+"|"+strings.Join(parts, "|"))).String()
}

func readTransactions(rows [][]string) []model.Transaction {
	col := columns(rows[0], "date", "label", "amount", "type")
	if col["date"] < 0 || col["amount"] < 0 {
		return nil
	}
	var out []model.Transaction
	for i, row := range rows[1:] {
		date, ok := parseDate(cell(row, col["date"]))
		if !ok {
			continue
		}
		amt, ok := parseNumber(cell(row, col["amount"]))
		if !ok || amt <= 0 {
			continue
		}
		label := cleanText(cell(row, col["label"]))
		if label == "" {
			label = "Imported"
		}
		out = append(out, model.Transaction{
			ID:     importID("tx", strconv.Itoa(i), date, label, strconv.FormatFloat(amt, 'f', -1, 64)),
			Date:   date,
			Label:  label,
			Amount: amt,
			Type:   model.ParseTxType(strings.ToLower(cell(row, col["type"]))),
		})
	}
	return out
}

func readWorkouts(rows [][]string) []model.Workout {
	col := columns(rows[0], "date", "daytype", "exercise", "set", "reps", "weight", "notes")
	if col["date"] < 0 || col["exercise"] < 0 || col["reps"] < 0 || col["weight"] < 0 {
		return nil
	}

	var order []string
	byKey := make(map[string]*model.Workout)
	for _, row := range rows[1:] {
		date, ok := parseDate(cell(row, col["date"]))
		if !ok {
			continue
		}
		name := cleanText(cell(row, col["exercise"]))
		reps, rok := parseNumber(cell(row, col["reps"]))
		kg, wok := parseNumber(cell(row, col["weight"]))
		if name == "" || !rok || !wok || reps <= 0 || kg <= 0 {
			continue
		}
		dayType := strings.ToLower(cleanText(cell(row, col["daytype"])))
		if dayType == "" {
			dayType = "custom"
		}

		key := date + "|" + dayType
		w, ok := byKey[key]
		if !ok {
			w = &model.Workout{ID: importID("workout", date, dayType), Date: date, DayType: dayType}
			byKey[key] = w
			order = append(order, key)
		}
		idx := -1
		for j := range w.Exercises {
			if model.SameExercise(w.Exercises[j].Name, name) {
				idx = j
				break
			}
		}
		if idx < 0 {
			w.Exercises = append(w.Exercises, model.Exercise{Name: name})
			idx = len(w.Exercises) - 1
		}
		e := &w.Exercises[idx]
		e.Sets = append(e.Sets, model.Set{Weight: kg, Reps: int(reps)})
		if n := cleanText(cell(row, col["notes"])); n != "" && e.Notes == "" {
			e.Notes = n
		}
	}

	out := make([]model.Workout, 0, len(order))
	for _, k := range order {
		w := *byKey[k]
		if w.DayType == "custom" && len(w.Exercises) == 1 {
			w.Name = w.Exercises[0].Name
		}
		out = append(out, w)
	}
	return out
}

func readWeights(rows [][]string) []model.WeightEntry {
	col := columns(rows[0], "date", "weight")
	if col["date"] < 0 || col["weight"] < 0 {
		return nil
	}
	var out []model.WeightEntry
	for _, row := range rows[1:] {
		date, ok := parseDate(cell(row, col["date"]))
		if !ok {
			continue
		}
		kg, ok := parseNumber(cell(row, col["weight"]))
		if !ok || kg <= 0 {
			continue
		}
		out = append(out, model.WeightEntry{Date: date, Weight: kg})
	}
	return out
}
