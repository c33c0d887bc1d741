package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/syokota-cyber/study-tracker/pkg/server"
	"github.com/syokota-cyber/study-tracker/pkg/service/mcp"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg        config
		addr       string
		corsOrigin string
		noMCP      bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Usage:       "Listen address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("STUDY_TRACKER_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "cors-origin",
			Usage:       "Origin allowed by CORS (empty disables CORS headers)",
			Value:       "http://localhost:3000",
			Sources:     cli.EnvVars("STUDY_TRACKER_CORS_ORIGIN"),
			Destination: &corsOrigin,
		},
		&cli.BoolFlag{
			Name:        "no-mcp",
			Usage:       "Do not mount the MCP endpoint at /mcp",
			Destination: &noMCP,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.NewJSON(cfg.logLevel, c.Root().ErrWriter)
			ctx = logging.With(ctx, logger)

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := []server.Option{
				server.WithCORSOrigin(corsOrigin),
				server.WithLogger(logger),
				server.WithVersion(Version),
			}
			if !noMCP {
				opts = append(opts, server.WithMCP(mcp.New(uc, Version).Handler()))
			}

			logger.Info("starting study tracker API",
				"addr", addr,
				"backend", cfg.backend,
				"mcp", !noMCP,
			)
			return server.New(uc, opts...).Run(ctx, addr)
		},
	}
}
