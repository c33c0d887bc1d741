package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
	"github.com/urfave/cli/v3"
)

var errUnknownPeriod = goerr.New("period must be one of all, week, month")

// periodDays maps --period to a created-within filter. nil means no limit.
func periodDays(period string) (*int, error) {
	var days int
	switch strings.ToLower(period) {
	case "", "all":
		return nil, nil
	case "week":
		days = 7
	case "month":
		days = 30
	default:
		return nil, goerr.Wrap(errUnknownPeriod, "invalid period", goerr.V("period", period))
	}
	return &days, nil
}

func statsCommand() *cli.Command {
	var (
		cfg    config
		filter filterConfig
		view   string
		period string
		asJSON bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "view",
			Aliases:     []string{"v"},
			Usage:       "Aggregation (summary, by_category, by_difficulty, time_distribution, timeline)",
			Value:       string(query.ViewSummary),
			Destination: &view,
		},
		&cli.StringFlag{
			Name:        "period",
			Aliases:     []string{"p"},
			Usage:       "Time window (all, week, month). --days takes precedence",
			Value:       "all",
			Destination: &period,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print JSON instead of YAML",
			Destination: &asJSON,
		},
	}
	flags = append(flags, filterFlags(&filter)...)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "stats",
		Usage: "Show statistics of study records",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			v, err := query.ParseView(view)
			if err != nil {
				return err
			}

			criteria, err := filter.criteria(c)
			if err != nil {
				return err
			}
			if criteria.Days == nil {
				if criteria.Days, err = periodDays(period); err != nil {
					return err
				}
			}

			ctx = cfg.withLogger(ctx, c)
			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := uc.Stats(ctx, record.StatsOptions{View: v, Criteria: criteria})
			if err != nil {
				return goerr.Wrap(err, "failed to compute stats", goerr.V("view", v))
			}

			return printStructured(c.Root().Writer, result, asJSON)
		},
	}
}
