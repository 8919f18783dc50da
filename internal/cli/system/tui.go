package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Context(), sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reward panel failed: %w", err)
	}
	return nil
}
