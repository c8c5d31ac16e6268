package commands

import (
	"fmt"

	"github.com/dadas-io/dadas/pkg/version"
	"github.com/urfave/cli/v2"
)

func execute(c *cli.Context) error {
	fmt.Printf("%s\n", version.Get())

	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "print version",
		Action: execute,
	}
}

func GetCommands() []*cli.Command {
	return []*cli.Command{
		serverCommand(),
		exportCommandDef(),
		versionCommand(),
	}
}
