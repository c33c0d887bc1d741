package record

import (
	"context"

	"github.com/syokota-cyber/study-tracker/pkg/query"
)

// StatsOptions selects the aggregation and the records it runs over
type StatsOptions struct {
	View     query.View
	Criteria query.Criteria
}

// Stats aggregates the filtered snapshot. The concrete result type depends on
// the view: query.Summary, []query.CategoryStats, []query.DifficultyStats,
// query.TimeDistribution or []query.DayStats.
func (u *UseCase) Stats(ctx context.Context, opts StatsOptions) (any, error) {
	records, err := u.Snapshot(ctx, opts.Criteria)
	if err != nil {
		return nil, err
	}

	return query.Aggregate(records, opts.View)
}
