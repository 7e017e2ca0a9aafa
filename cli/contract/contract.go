// Package contract implements the build and deploy CLI commands.
package contract

import (
	"context"
	"fmt"

	"github.com/nearlabs/nftoken/cli/options"
	"github.com/nearlabs/nftoken/pkg/deploy"
	"github.com/urfave/cli"
)

// NewCommands returns the 'contract' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "contract",
		Usage: "build and deploy the token contract",
		Subcommands: []cli.Command{
			{
				Name:   "build",
				Usage:  "compile the contract to a wasm artifact",
				Action: contractBuild,
				Flags:  options.Common,
			},
			{
				Name:   "deploy",
				Usage:  "clean build and deploy to a dev account, funding the owner sub-account",
				Action: contractDeploy,
				Flags: append([]cli.Flag{
					cli.BoolFlag{
						Name:  "init",
						Usage: "initialize the deployed contract with default metadata",
					},
				}, options.Common...),
			},
		},
	}}
}

func contractBuild(ctx *cli.Context) error {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b := deploy.NewBuilder(cfg.Build, deploy.NewExecRunner(log), log)
	out, err := b.Build(context.Background())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, out)
	return nil
}

func contractDeploy(ctx *cli.Context) error {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	run := deploy.NewExecRunner(log)
	d := deploy.NewDeployer(cfg, deploy.NewBuilder(cfg.Build, run, log), run, log)
	res, err := d.Deploy(context.Background(), ctx.Bool("init"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s=%s\n%s=%s\n", deploy.EnvContract, res.Contract, deploy.EnvOwnerID, res.Owner)
	return nil
}
