package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a study record",
		ArgsUsage: "<id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := recordIDArg(c)
			if err != nil {
				return err
			}
			ctx = cfg.withLogger(ctx, c)

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := uc.Delete(ctx, id); err != nil {
				return reportNotFound(c, id, err)
			}

			fmt.Fprintf(c.Root().Writer, "Record %s deleted\n", id)
			return nil
		},
	}
}
