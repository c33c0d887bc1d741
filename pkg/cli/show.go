package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/urfave/cli/v3"
)

// recordIDArg returns the first positional argument as a record ID
func recordIDArg(c *cli.Command) (model.RecordID, error) {
	if c.Args().Len() == 0 {
		return "", goerr.New("record ID is required")
	}
	return model.RecordID(c.Args().Get(0)), nil
}

// reportNotFound prints a lookup miss and swallows it. Other errors pass through.
func reportNotFound(c *cli.Command, id model.RecordID, err error) error {
	if errors.Is(err, model.ErrRecordNotFound) {
		fmt.Fprintf(c.Root().Writer, "record not found: %s\n", id)
		return nil
	}
	return err
}

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show details of a study record",
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

			r, err := uc.Show(ctx, id)
			if err != nil {
				return reportNotFound(c, id, err)
			}

			printRecordDetail(c.Root().Writer, r)
			return nil
		},
	}
}
