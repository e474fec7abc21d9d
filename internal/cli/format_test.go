package cli

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{6787, "₹6,787"},
		{85.5, "₹85.50"},
		{0, "₹0"},
		{-12, "-₹12"},
		{1234567.891, "₹1,234,567.89"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatLimitFloors(t *testing.T) {
	if got := FormatLimit(308.95); got != "₹308" {
		t.Fatalf("FormatLimit = %q, want ₹308", got)
	}
}

func TestFormatKg(t *testing.T) {
	for in, want := range map[float64]string{72: "72 kg", 62.5: "62.5 kg", 74.26: "74.3 kg"} {
		if got := FormatKg(in); got != want {
			t.Fatalf("FormatKg(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-03-10", "2026-03-10"); got != "Tue 10 Mar (today)" {
		t.Fatalf("FormatDate today = %q", got)
	}
	if got := FormatDate("2026-03-09", "2026-03-10"); got != "Mon 09 Mar (yesterday)" {
		t.Fatalf("FormatDate yesterday = %q", got)
	}
	if got := FormatDate("bogus", "2026-03-10"); got != "bogus" {
		t.Fatalf("FormatDate invalid = %q", got)
	}
}

func TestFormatAgo(t *testing.T) {
	if got := FormatAgo(time.Time{}); got != "never" {
		t.Fatalf("FormatAgo(zero) = %q", got)
	}
	if got := FormatAgo(time.Now().Add(-3 * time.Hour)); got != "3 hours ago" {
		t.Fatalf("FormatAgo = %q", got)
	}
}

func TestFormatSets(t *testing.T) {
	if got := FormatSets([]float64{60, 62.5}, []int{8, 6}); got != "60x8, 62.5x6" {
		t.Fatalf("FormatSets = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(70, 72.5, FormatKg); got != "-2.5 kg" {
		t.Fatalf("FormatDelta = %q", got)
	}
}
