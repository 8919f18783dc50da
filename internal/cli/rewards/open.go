package rewards

import (
	"os"

	"github.com/julianstephens/bobarewards/internal/cli"
)

// OpenCmd opens today's reward panel, checking in if needed
type OpenCmd struct{}

func (c *OpenCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := sess.Open(ctx.Context())
	if err != nil {
		return err
	}
	cli.PrintPresentation(os.Stdout, p)
	return nil
}

// StatusCmd shows the panel without checking in
type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := sess.Snapshot(ctx.Context())
	if err != nil {
		return err
	}
	cli.PrintPresentation(os.Stdout, p)
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Store.GetProfile(ctx.Context())
	if err != nil {
		return err
	}
	cli.PrintProgress(os.Stdout, profile.Balance, profile.Level)
	return nil
}
