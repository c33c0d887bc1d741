package query_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

func scenarioRecords() []*model.Record {
	return []*model.Record{
		newRecord("1", "loops", "", 60, "Prog", 3, 0),
		newRecord("2", "closures", "", 90, "Prog", 2, 0),
		newRecord("3", "git", "", 45, "Tools", 1, 0),
	}
}

func TestSummarize(t *testing.T) {
	summary := query.Summarize(scenarioRecords())

	gt.Equal(t, summary.TotalRecords, 3)
	gt.Equal(t, summary.TotalStudyTime, 195)
	gt.Equal(t, summary.TotalStudyHours, 3.25)
	gt.Equal(t, summary.AverageDifficulty, 2.0)
	gt.Equal(t, summary.CategoryBreakdown, map[string]int{"Prog": 2, "Tools": 1})
	gt.Equal(t, summary.DifficultyBreakdown, map[int]int{1: 1, 2: 1, 3: 1})
}

func TestSummarizeUsesSentinelCategory(t *testing.T) {
	records := []*model.Record{
		newRecord("1", "a", "", 10, "", 1, 0),
		newRecord("2", "b", "", 10, "", 2, 0),
	}
	summary := query.Summarize(records)
	gt.Equal(t, summary.CategoryBreakdown, map[string]int{model.UncategorizedLabel: 2})
	gt.Equal(t, summary.AverageDifficulty, 1.5)
}

func TestSummarizeRoundsAverage(t *testing.T) {
	records := []*model.Record{
		newRecord("1", "a", "", 10, "x", 1, 0),
		newRecord("2", "b", "", 10, "x", 1, 0),
		newRecord("3", "c", "", 10, "x", 2, 0),
	}
	gt.Equal(t, query.Summarize(records).AverageDifficulty, 1.33)
}

func TestEmptyAggregations(t *testing.T) {
	summary := query.Summarize(nil)
	gt.Equal(t, summary.TotalRecords, 0)
	gt.Equal(t, summary.TotalStudyTime, 0)
	gt.Equal(t, summary.AverageDifficulty, 0.0)
	gt.A(t, query.ByCategory(nil)).Length(0)
	gt.A(t, query.ByDifficulty(nil)).Length(0)
	gt.A(t, query.Timeline(nil)).Length(0)
	gt.Equal(t, query.ComputeTimeDistribution(nil), query.TimeDistribution{})

	raw, err := json.Marshal(map[string]any{
		"summary":     summary,
		"by_category": query.ByCategory(nil),
		"timeline":    query.Timeline(nil),
	})
	gt.NoError(t, err)
	gt.S(t, string(raw)).Contains(`"category_breakdown":{}`)
	gt.S(t, string(raw)).Contains(`"by_category":[]`)
	gt.S(t, string(raw)).Contains(`"timeline":[]`)
}

func TestByCategory(t *testing.T) {
	stats := query.ByCategory(scenarioRecords())

	gt.Equal(t, stats, []query.CategoryStats{
		{Category: "Prog", Count: 2, TotalTime: 150, TotalHours: 2.5, AverageDifficulty: 2.5, AverageTime: 75},
		{Category: "Tools", Count: 1, TotalTime: 45, TotalHours: 0.75, AverageDifficulty: 1, AverageTime: 45},
	})
}

func TestByCategoryCountsEveryRecord(t *testing.T) {
	for _, records := range [][]*model.Record{nil, scenarioRecords(), sampleRecords()} {
		var sum int
		for _, s := range query.ByCategory(records) {
			sum += s.Count
		}
		gt.Equal(t, sum, len(records))
	}
}

func TestByCategoryFirstOccurrenceOrder(t *testing.T) {
	records := []*model.Record{
		newRecord("1", "a", "", 10, "zeta", 1, 0),
		newRecord("2", "b", "", 10, "", 1, 0),
		newRecord("3", "c", "", 10, "alpha", 1, 0),
		newRecord("4", "d", "", 10, "zeta", 1, 0),
	}
	stats := query.ByCategory(records)
	gt.A(t, stats).Length(3)
	gt.Equal(t, stats[0].Category, "zeta")
	gt.Equal(t, stats[1].Category, model.UncategorizedLabel)
	gt.Equal(t, stats[2].Category, "alpha")
}

func TestByDifficulty(t *testing.T) {
	records := append(scenarioRecords(),
		newRecord("4", "odd", "", 30, "x", 7, 0),
		newRecord("5", "zero", "", 20, "x", 0, 0),
		newRecord("6", "more", "", 30, "x", 2, 0),
	)

	stats := query.ByDifficulty(records)
	gt.Equal(t, stats, []query.DifficultyStats{
		{Difficulty: 0, Count: 1, TotalTime: 20, TotalHours: 0.33, AverageTime: 20},
		{Difficulty: 1, Count: 1, TotalTime: 45, TotalHours: 0.75, AverageTime: 45},
		{Difficulty: 2, Count: 2, TotalTime: 120, TotalHours: 2, AverageTime: 60},
		{Difficulty: 3, Count: 1, TotalTime: 60, TotalHours: 1, AverageTime: 60},
		{Difficulty: 7, Count: 1, TotalTime: 30, TotalHours: 0.5, AverageTime: 30},
	})
}

func TestTimeDistribution(t *testing.T) {
	dist := query.ComputeTimeDistribution(scenarioRecords())
	gt.Equal(t, dist, query.TimeDistribution{Short: 0, Medium: 3, Long: 0, TotalRecords: 3})

	boundaries := []*model.Record{
		newRecord("1", "a", "", 29, "", 1, 0),
		newRecord("2", "b", "", 30, "", 1, 0),
		newRecord("3", "c", "", 119, "", 1, 0),
		newRecord("4", "d", "", 120, "", 1, 0),
		newRecord("5", "e", "", -5, "", 1, 0),
	}
	dist = query.ComputeTimeDistribution(boundaries)
	gt.Equal(t, dist, query.TimeDistribution{Short: 2, Medium: 2, Long: 1, TotalRecords: 5})
}

func TestTimeline(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	at := func(id string, ts time.Time, minutes int) *model.Record {
		return &model.Record{ID: model.RecordID(id), Title: id, StudyTime: minutes, Difficulty: 1, CreatedAt: ts, UpdatedAt: ts}
	}

	records := []*model.Record{
		at("1", time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), 30),
		at("2", time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC), 45),
		// 2025-03-02 08:00 JST is 2025-03-01 23:00 UTC
		at("3", time.Date(2025, 3, 2, 8, 0, 0, 0, jst), 15),
		at("4", time.Date(2025, 3, 2, 11, 0, 0, 0, time.UTC), 100),
	}

	gt.Equal(t, query.Timeline(records), []query.DayStats{
		{Date: "2025-03-01", TotalTime: 60, TotalHours: 1, Count: 2},
		{Date: "2025-03-02", TotalTime: 130, TotalHours: 2.17, Count: 2},
	})
}
