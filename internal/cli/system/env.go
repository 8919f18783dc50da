package system

import (
	"os"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/config"
)

// EnvCmd lists the environment variables bobarewards reads
type EnvCmd struct{}

func (c *EnvCmd) Run(ctx *cli.Context) error {
	return config.Usage(os.Stdout)
}
