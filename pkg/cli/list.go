package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg    config
		filter filterConfig
		page   int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "page",
			Usage:       "Page number",
			Value:       query.DefaultPage,
			Destination: &page,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Records per page (1-100)",
			Value:       query.DefaultLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, filterFlags(&filter)...)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List study records, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := query.ValidatePage(int(page), int(limit)); err != nil {
				return err
			}
			criteria, err := filter.criteria(c)
			if err != nil {
				return err
			}
			ctx = cfg.withLogger(ctx, c)

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := uc.List(ctx, record.ListOptions{
				Criteria: criteria,
				Page:     int(page),
				Limit:    int(limit),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to list records")
			}

			w := c.Root().Writer
			if result.Page.TotalItems == 0 {
				fmt.Fprintf(w, "No study records\n")
				return nil
			}

			printPage(w, result.Page)
			fmt.Fprintln(w, strings.Repeat("-", 60))
			for _, r := range result.Records {
				printRecordLine(w, r)
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
