package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/soil/adapter"
	"github.com/mklimuk/soil/cmd/soil/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "manage the MCP2221 usb adapter",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "print the adapter i2c engine status",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		defer func() { _ = a.Close() }()
		status, err := a.Status(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err = enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and release the i2c bus",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "skip the confirmation prompt",
		},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("release the i2c bus?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				return nil
			}
		}
		a := adapter.NewMCP2221()
		defer func() { _ = a.Close() }()
		status, err := a.ReleaseBus(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		console.Infof("%s", console.Green("bus released"))
		enc := yaml.NewEncoder(os.Stdout)
		if err = enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
