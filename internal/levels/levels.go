// Package levels maps a point balance to a level label.
package levels

// Resolver names the level reached at a balance
type Resolver interface {
	Resolve(balance int) string
}

// Level is a threshold row: the label applies from MinPoints upward
type Level struct {
	Name      string
	MinPoints int
}

// Table is a threshold table sorted by MinPoints
type Table []Level

// Default is the level ladder used when no table is configured
var Default = Table{
	{Name: "Bubble Tea Newbie", MinPoints: 0},
	{Name: "Bubble Tea Explorer", MinPoints: 300},
	{Name: "Bubble Tea Enthusiast", MinPoints: 600},
	{Name: "Bubble Tea Master", MinPoints: 1000},
	{Name: "Bubble Tea Legend", MinPoints: 5000},
}

// Resolve returns the highest level whose threshold is at or below balance
func (t Table) Resolve(balance int) string {
	name := ""
	for _, l := range t {
		if balance < l.MinPoints {
			break
		}
		name = l.Name
	}
	return name
}

// Next returns the next level above balance, if any
func (t Table) Next(balance int) (Level, bool) {
	for _, l := range t {
		if l.MinPoints > balance {
			return l, true
		}
	}
	return Level{}, false
}
