package workout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/model"
)

// ParseSet reads "60x8" (weight x reps). A bare "x8" or "0x8" is a
// bodyweight set. The separator may be x, X, * or ×.
func ParseSet(s string) (model.Set, error) {
	s = strings.TrimSpace(strings.NewReplacer("×", "x", "X", "x", "*", "x").Replace(s))
	w, r, ok := strings.Cut(s, "x")
	if !ok {
		return model.Set{}, fmt.Errorf("set %q: want WEIGHTxREPS", s)
	}
	var weight float64
	if w = strings.TrimSuffix(strings.TrimSpace(w), "kg"); w != "" {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil || v < 0 {
			return model.Set{}, fmt.Errorf("set %q: bad weight", s)
		}
		weight = v
	}
	reps, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil || reps < 0 {
		return model.Set{}, fmt.Errorf("set %q: bad reps", s)
	}
	return model.Set{Weight: weight, Reps: reps}, nil
}

// ParseSets parses each token with ParseSet.
func ParseSets(tokens []string) ([]model.Set, error) {
	sets := make([]model.Set, 0, len(tokens))
	for _, tok := range tokens {
		st, err := ParseSet(tok)
		if err != nil {
			return nil, err
		}
		sets = append(sets, st)
	}
	return sets, nil
}

// ParseExerciseLine splits "Bench Press 60x8 60x8 62.5x6" into the
// exercise name and its sets. The name is every leading token that is not
// a set.
func ParseExerciseLine(line string) (model.Exercise, error) {
	fields := strings.Fields(line)
	i := 0
	for i < len(fields) {
		if _, err := ParseSet(fields[i]); err == nil {
			break
		}
		i++
	}
	name := strings.Join(fields[:i], " ")
	if name == "" {
		return model.Exercise{}, fmt.Errorf("missing exercise name in %q", line)
	}
	if i == len(fields) {
		return model.Exercise{}, fmt.Errorf("no sets for %s", name)
	}
	sets, err := ParseSets(fields[i:])
	if err != nil {
		return model.Exercise{}, err
	}
	return model.Exercise{Name: name, Sets: sets}, nil
}
