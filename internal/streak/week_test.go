package streak

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/julianstephens/bobarewards/internal/utils"
)

func TestProjectWeek(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		today string
		want  WeekGrid
	}{
		{
			name:  "empty history",
			dates: nil,
			today: "2024-01-17",
			want:  WeekGrid{},
		},
		{
			name:  "continued streak into monday",
			dates: []string{"2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13", "2024-01-14", "2024-01-15"},
			today: "2024-01-15",
			want:  WeekGrid{true, true, false, false, false, false, false},
		},
		{
			name:  "reset streak on wednesday",
			dates: []string{"2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13", "2024-01-14", "2024-01-17"},
			today: "2024-01-17",
			want:  WeekGrid{true, false, false, true, false, false, false},
		},
		{
			name:  "last week does not leak in",
			dates: []string{"2024-01-13"},
			today: "2024-01-14",
			want:  WeekGrid{},
		},
		{
			name:  "full week on saturday",
			dates: []string{"2024-01-14", "2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19", "2024-01-20"},
			today: "2024-01-20",
			want:  WeekGrid{true, true, true, true, true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectWeek(tt.dates, tt.today); got != tt.want {
				t.Errorf("ProjectWeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekDays(t *testing.T) {
	got := WeekDays("2024-01-17")
	want := [7]string{"2024-01-14", "2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19", "2024-01-20"}
	if got != want {
		t.Errorf("WeekDays() = %v, want %v", got, want)
	}
}

func TestWeekGridCount(t *testing.T) {
	g := WeekGrid{true, false, true, false, false, false, true}
	if got := g.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestProjectWeekConsistency(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	var dates []string
	for i := 0; i < 120; i++ {
		if r.IntN(2) == 0 {
			d, _ := utils.AddDays("2024-01-01", i)
			dates = append(dates, d)
		}
	}

	for i := 0; i < 120; i++ {
		today, _ := utils.AddDays("2024-01-01", i)
		grid := ProjectWeek(dates, today)
		for j, day := range WeekDays(today) {
			if grid[j] != slices.Contains(dates, day) {
				t.Fatalf("today %s: grid[%d] = %v for %s", today, j, grid[j], day)
			}
		}
	}
}
