package query

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
)

// View selects which aggregation to compute
type View string

const (
	ViewSummary          View = "summary"
	ViewByCategory       View = "by_category"
	ViewByDifficulty     View = "by_difficulty"
	ViewTimeDistribution View = "time_distribution"
	ViewTimeline         View = "timeline"
)

var ErrUnknownView = goerr.New("unknown stats view")

var viewAliases = map[string]View{
	"summary":           ViewSummary,
	"by_category":       ViewByCategory,
	"category":          ViewByCategory,
	"by_difficulty":     ViewByDifficulty,
	"difficulty":        ViewByDifficulty,
	"time_distribution": ViewTimeDistribution,
	"time-distribution": ViewTimeDistribution,
	"time":              ViewTimeDistribution,
	"timeline":          ViewTimeline,
}

// Views returns every canonical view name
func Views() []View {
	return []View{ViewSummary, ViewByCategory, ViewByDifficulty, ViewTimeDistribution, ViewTimeline}
}

// ParseView resolves a view name or alias. Empty string means summary.
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewSummary, nil
	}
	if v, ok := viewAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return "", goerr.Wrap(ErrUnknownView, "failed to parse view", goerr.V("view", s))
}

// Aggregate computes the aggregation selected by view
func Aggregate(records []*model.Record, view View) (any, error) {
	switch view {
	case ViewSummary, "":
		return Summarize(records), nil
	case ViewByCategory:
		return ByCategory(records), nil
	case ViewByDifficulty:
		return ByDifficulty(records), nil
	case ViewTimeDistribution:
		return ComputeTimeDistribution(records), nil
	case ViewTimeline:
		return Timeline(records), nil
	default:
		return nil, goerr.Wrap(ErrUnknownView, "failed to aggregate", goerr.V("view", view))
	}
}
