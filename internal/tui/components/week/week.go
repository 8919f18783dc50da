// Package week renders the Sun..Sat check-in grid.
package week

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bobarewards/internal/streak"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(4).
			Align(lipgloss.Center)

	todayLabelStyle = labelStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center)

	checkedStyle = cellStyle.Foreground(lipgloss.Color("42"))

	todayStyle = cellStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Underline(true)

	futureStyle = cellStyle.Foreground(lipgloss.Color("238"))
)

// Model holds one week of check-ins and which column is today
type Model struct {
	Grid  streak.WeekGrid
	Today int
}

func New(grid streak.WeekGrid, today int) Model {
	return Model{Grid: grid, Today: today}
}

// Mark returns the symbol for column i
func (m Model) Mark(i int) string {
	switch {
	case m.Today >= 0 && i > m.Today:
		return "·"
	case m.Grid[i]:
		return "●"
	default:
		return "○"
	}
}

func (m Model) View() string {
	var labels, cells []string
	for i, l := range streak.DayLabels {
		if i == m.Today {
			labels = append(labels, todayLabelStyle.Render(l))
		} else {
			labels = append(labels, labelStyle.Render(l))
		}

		mark := m.Mark(i)
		switch {
		case i == m.Today:
			cells = append(cells, todayStyle.Render(mark))
		case mark == "·":
			cells = append(cells, futureStyle.Render(mark))
		case mark == "●":
			cells = append(cells, checkedStyle.Render(mark))
		default:
			cells = append(cells, cellStyle.Render(mark))
		}
	}
	return strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, labels...),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	}, "\n")
}
