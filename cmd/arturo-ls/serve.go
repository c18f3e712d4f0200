package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/arturo/lsp"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the language server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen on a TCP address instead of stdio (e.g. 127.0.0.1:7777)",
			},
			&cli.BoolFlag{
				Name:  "client-log",
				Usage: "forward warnings and errors to the editor's log view",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	opts := serveOptions{clientLog: cmd.Bool("client-log")}

	if addr := cmd.String("listen"); addr != "" {
		logger.Info("Starting language server", zap.String("listen", addr))

		return jsonrpc2.ListenAndServe(ctx, "tcp", addr, jsonrpc2.ServerFunc(func(ctx context.Context, conn jsonrpc2.Conn) error {
			return serveConn(ctx, logger, conn, opts)
		}), 0)
	}

	logger.Info("Starting language server on stdio")

	stream := jsonrpc2.NewStream(&readWriteCloser{os.Stdin, os.Stdout})

	return serveConn(ctx, logger, jsonrpc2.NewConn(stream), opts)
}

type serveOptions struct {
	clientLog bool
}

// serveConn runs one server on conn until the client exits or disconnects.
func serveConn(ctx context.Context, logger *zap.Logger, conn jsonrpc2.Conn, opts serveOptions) error {
	client := protocol.ClientDispatcher(conn, logger)

	if opts.clientLog {
		var stop func()

		logger, stop = lsp.NewClientLogger(client, logger.Core(), zapcore.WarnLevel)
		defer stop()
	}

	server := lsp.NewServer(client, logger)
	defer server.Close()

	conn.Go(ctx, server.Handler())

	select {
	case <-conn.Done():
		return conn.Err()
	case <-server.Exited():
		return conn.Close()
	case <-ctx.Done():
		_ = conn.Close()

		return ctx.Err()
	}
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
