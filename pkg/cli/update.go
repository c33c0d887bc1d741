package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/urfave/cli/v3"
)

func updateCommand() *cli.Command {
	var (
		cfg        config
		title      string
		content    string
		studyTime  int64
		category   string
		difficulty int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Usage:       "New title",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "content",
			Usage:       "New content",
			Destination: &content,
		},
		&cli.IntFlag{
			Name:        "time",
			Aliases:     []string{"t"},
			Usage:       "New study time in minutes",
			Destination: &studyTime,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "New category",
			Destination: &category,
		},
		&cli.IntFlag{
			Name:        "difficulty",
			Aliases:     []string{"d"},
			Usage:       "New difficulty (1-5)",
			Destination: &difficulty,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a study record",
		ArgsUsage: "<id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := recordIDArg(c)
			if err != nil {
				return err
			}

			var update model.RecordUpdate
			if c.IsSet("title") {
				update.Title = &title
			}
			if c.IsSet("content") {
				update.Content = &content
			}
			if c.IsSet("time") {
				v := int(studyTime)
				update.StudyTime = &v
			}
			if c.IsSet("category") {
				update.Category = &category
			}
			if c.IsSet("difficulty") {
				v := int(difficulty)
				update.Difficulty = &v
			}
			if update.IsEmpty() {
				fmt.Fprintf(c.Root().Writer, "No fields to update\n")
				return nil
			}

			ctx = cfg.withLogger(ctx, c)
			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := uc.Update(ctx, id, update); err != nil {
				if err := reportNotFound(c, id, err); err != nil {
					return goerr.Wrap(err, "failed to update record", goerr.V("id", id))
				}
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "Record %s updated\n", id)
			return nil
		},
	}
}
