// Command arturo-ls is a language server and checker for Arturo.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/arturo"
)

func main() {
	app := &cli.Command{
		Name:    arturo.ServerName,
		Usage:   "Language server and static checker for Arturo",
		Version: arturo.ServerVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("ARTURO_LS_DEBUG"),
			},
			// Accepted for editors that pass it; stdio is the default transport.
			&cli.BoolFlag{
				Name:   "stdio",
				Hidden: true,
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
			fmtCommand(),
			symbolsCommand(),
			mcpCommand(),
		},
		// Editors launch the binary without arguments and expect a server on stdio.
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr; stdout carries the protocol.
func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}
