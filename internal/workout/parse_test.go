package workout

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/zenith/internal/model"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		in   string
		want model.Set
	}{
		{"60x8", model.Set{Weight: 60, Reps: 8}},
		{"62.5X6", model.Set{Weight: 62.5, Reps: 6}},
		{"40kg*10", model.Set{Weight: 40, Reps: 10}},
		{"20×12", model.Set{Weight: 20, Reps: 12}},
		{"x15", model.Set{Reps: 15}},
	}
	for _, tt := range tests {
		got, err := ParseSet(tt.in)
		if err != nil {
			t.Fatalf("ParseSet(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSet(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"60", "ax8", "60xb", "-5x8", ""} {
		if _, err := ParseSet(bad); err == nil {
			t.Fatalf("ParseSet(%q) should fail", bad)
		}
	}
}

func TestParseExerciseLine(t *testing.T) {
	got, err := ParseExerciseLine("Bench Press 60x8 60x8 62.5x6")
	if err != nil {
		t.Fatalf("ParseExerciseLine error: %v", err)
	}
	want := model.Exercise{Name: "Bench Press", Sets: []model.Set{{Weight: 60, Reps: 8}, {Weight: 60, Reps: 8}, {Weight: 62.5, Reps: 6}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseExerciseLine = %+v, want %+v", got, want)
	}

	if _, err := ParseExerciseLine("60x8"); err == nil {
		t.Fatal("line without a name should fail")
	}
	if _, err := ParseExerciseLine("Bench Press"); err == nil {
		t.Fatal("line without sets should fail")
	}
}
