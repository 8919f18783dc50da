package streak

import (
	"github.com/julianstephens/bobarewards/internal/utils"
)

// WeekGrid marks the check-ins of one Sunday..Saturday week, index 0 is Sunday.
type WeekGrid [7]bool

// Count returns the number of checked-in days in the week
func (g WeekGrid) Count() int {
	n := 0
	for _, checked := range g {
		if checked {
			n++
		}
	}
	return n
}

// DayLabels are the single-letter headers shown over the grid
var DayLabels = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// WeekDays returns the seven days of the week containing today, Sunday first.
func WeekDays(today string) [7]string {
	var days [7]string
	start, err := utils.WeekStart(today)
	if err != nil {
		return days
	}
	for i := range days {
		days[i], _ = utils.AddDays(start, i)
	}
	return days
}

// ProjectWeek reports which days of the current week appear in checkinDates.
// The grid is derived on every call and never stored.
func ProjectWeek(checkinDates []string, today string) WeekGrid {
	seen := make(map[string]struct{}, len(checkinDates))
	for _, d := range checkinDates {
		seen[d] = struct{}{}
	}

	var grid WeekGrid
	for i, day := range WeekDays(today) {
		if day == "" {
			continue
		}
		_, grid[i] = seen[day]
	}
	return grid
}
