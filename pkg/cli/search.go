package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg   config
		opts  query.SearchOptions
		limit int64
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "title-only",
			Usage:       "Match the title only",
			Destination: &opts.TitleOnly,
		},
		&cli.BoolFlag{
			Name:        "content-only",
			Usage:       "Match the content only",
			Destination: &opts.ContentOnly,
		},
		&cli.BoolFlag{
			Name:        "case-sensitive",
			Usage:       "Match case exactly",
			Destination: &opts.CaseSensitive,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of records to return (0 for all)",
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search study records by keyword",
		ArgsUsage: "<keyword>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			opts.Keyword = c.Args().Get(0)
			opts.Limit = int(limit)
			if err := opts.Validate(); err != nil {
				return err
			}
			ctx = cfg.withLogger(ctx, c)

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := uc.Search(ctx, opts)
			if err != nil {
				return goerr.Wrap(err, "failed to search records")
			}

			w := c.Root().Writer
			if len(records) == 0 {
				fmt.Fprintf(w, "No records match %q\n", opts.Keyword)
				return nil
			}

			fmt.Fprintf(w, "Found %d records for %q\n\n", len(records), opts.Keyword)
			for _, r := range records {
				printRecordLine(w, r)
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
