package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nearlabs/nftoken/cli/contract"
	"github.com/nearlabs/nftoken/cli/token"
	"github.com/nearlabs/nftoken/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "nftoken\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates an nftoken instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "nftoken"
	ctl.Version = config.Version
	ctl.Usage = "NEAR non-fungible token tooling"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, contract.NewCommands()...)
	ctl.Commands = append(ctl.Commands, token.NewCommands()...)
	return ctl
}
