package rewards

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/bobarewards/internal/cli"
)

type AwardsCmd struct {
	Limit int `help:"Number of awards to show (0 for all)." default:"10"`
}

func (c *AwardsCmd) Run(ctx *cli.Context) error {
	awards, err := ctx.Store.ListAwards(ctx.Context(), c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list awards: %w", err)
	}
	if len(awards) == 0 {
		fmt.Println("No awards yet. Open the reward panel to check in.")
		return nil
	}

	total := 0
	for _, a := range awards {
		total += a.Points
		fmt.Printf("  %s  +%-3d %-8s %s (%s)\n", a.Day, a.Points, a.Source, a.Description, humanize.Time(a.CreatedAt))
	}
	fmt.Printf("\n%d award(s), %s pts\n", len(awards), humanize.Comma(int64(total)))
	return nil
}
