package cli

import (
	"context"

	"github.com/syokota-cyber/study-tracker/pkg/service/mcp"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve study record tools over MCP on stdin/stdout",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			// stdout carries the protocol, so logs stay on the error writer
			ctx = cfg.withLogger(ctx, c)

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return mcp.New(uc, Version).Run(ctx)
		},
	}
}
