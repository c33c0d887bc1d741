package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/urfave/cli/v3"
)

func addCommand() *cli.Command {
	var (
		cfg        config
		content    string
		studyTime  int64
		category   string
		difficulty int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "content",
			Usage:       "What was studied",
			Destination: &content,
		},
		&cli.IntFlag{
			Name:        "time",
			Aliases:     []string{"t"},
			Usage:       "Study time in minutes",
			Value:       0,
			Destination: &studyTime,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Category",
			Destination: &category,
		},
		&cli.IntFlag{
			Name:        "difficulty",
			Aliases:     []string{"d"},
			Usage:       "Difficulty (1-5)",
			Value:       1,
			Destination: &difficulty,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "add",
		Usage:     "Add a study record",
		ArgsUsage: "<title>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("title is required")
			}
			ctx = cfg.withLogger(ctx, c)

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			input := model.NewRecordInput(c.Args().Get(0))
			input.Content = content
			input.StudyTime = int(studyTime)
			input.Category = category
			input.Difficulty = int(difficulty)

			r, err := uc.Create(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to add record")
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Record added (ID: %s)\n", r.ID)
			fmt.Fprintf(w, "   title: %s\n", r.Title)
			fmt.Fprintf(w, "   study time: %s\n", model.FormatDuration(r.StudyTime))
			return nil
		},
	}
}
