package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rlch/arturo/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve Arturo analysis tools over the Model Context Protocol",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "workspace root that relative file arguments resolve against",
				Value: ".",
			},
		},
		Action: runMCP,
	}
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	s, err := mcpserver.New(cmd.String("root"), logger)
	if err != nil {
		return err
	}

	return s.Serve()
}
