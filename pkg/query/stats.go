package query

import (
	"sort"

	"github.com/syokota-cyber/study-tracker/pkg/model"
)

const (
	// ShortSessionLimit is the exclusive upper bound of the short bucket
	ShortSessionLimit = 30
	// LongSessionThreshold is the inclusive lower bound of the long bucket
	LongSessionThreshold = 120

	timelineDateFormat = "2006-01-02"
)

// Summary is the overall statistics of a record set
type Summary struct {
	TotalRecords        int            `json:"total_records" yaml:"total_records"`
	TotalStudyTime      int            `json:"total_study_time" yaml:"total_study_time"`
	TotalStudyHours     float64        `json:"total_study_hours" yaml:"total_study_hours"`
	AverageDifficulty   float64        `json:"average_difficulty" yaml:"average_difficulty"`
	CategoryBreakdown   map[string]int `json:"category_breakdown" yaml:"category_breakdown"`
	DifficultyBreakdown map[int]int    `json:"difficulty_breakdown" yaml:"difficulty_breakdown"`
}

// CategoryStats is the per-category aggregation
type CategoryStats struct {
	Category          string  `json:"category" yaml:"category"`
	Count             int     `json:"count" yaml:"count"`
	TotalTime         int     `json:"total_time" yaml:"total_time"`
	TotalHours        float64 `json:"total_hours" yaml:"total_hours"`
	AverageDifficulty float64 `json:"average_difficulty" yaml:"average_difficulty"`
	AverageTime       float64 `json:"average_time" yaml:"average_time"`
}

// DifficultyStats is the per-difficulty aggregation
type DifficultyStats struct {
	Difficulty  int     `json:"difficulty" yaml:"difficulty"`
	Count       int     `json:"count" yaml:"count"`
	TotalTime   int     `json:"total_time" yaml:"total_time"`
	TotalHours  float64 `json:"total_hours" yaml:"total_hours"`
	AverageTime float64 `json:"average_time" yaml:"average_time"`
}

// TimeDistribution counts records per study time bucket
type TimeDistribution struct {
	Short        int `json:"short_time" yaml:"short_time"`
	Medium       int `json:"medium_time" yaml:"medium_time"`
	Long         int `json:"long_time" yaml:"long_time"`
	TotalRecords int `json:"total_records" yaml:"total_records"`
}

// DayStats is the aggregation of one UTC calendar day
type DayStats struct {
	Date       string  `json:"date" yaml:"date"`
	TotalTime  int     `json:"total_time" yaml:"total_time"`
	TotalHours float64 `json:"total_hours" yaml:"total_hours"`
	Count      int     `json:"count" yaml:"count"`
}

type accumulator struct {
	count         int
	totalTime     int
	sumDifficulty int
}

func (a *accumulator) add(r *model.Record) {
	a.count++
	a.totalTime += r.StudyTime
	a.sumDifficulty += r.Difficulty
}

func (a *accumulator) averageTime() float64 {
	if a.count == 0 {
		return 0
	}
	return model.Round2(float64(a.totalTime) / float64(a.count))
}

func (a *accumulator) averageDifficulty() float64 {
	if a.count == 0 {
		return 0
	}
	return model.Round2(float64(a.sumDifficulty) / float64(a.count))
}

// Summarize computes overall statistics. Empty input gives zero values and
// empty breakdown maps.
func Summarize(records []*model.Record) Summary {
	var total accumulator
	summary := Summary{
		CategoryBreakdown:   make(map[string]int),
		DifficultyBreakdown: make(map[int]int),
	}

	for _, r := range records {
		total.add(r)
		summary.CategoryBreakdown[r.CategoryLabel()]++
		summary.DifficultyBreakdown[r.Difficulty]++
	}

	summary.TotalRecords = total.count
	summary.TotalStudyTime = total.totalTime
	summary.TotalStudyHours = model.Hours(total.totalTime)
	summary.AverageDifficulty = total.averageDifficulty()
	return summary
}

// ByCategory groups records by category label in first-occurrence order
func ByCategory(records []*model.Record) []CategoryStats {
	groups := newOrderedGroups[string, accumulator]()
	for _, r := range records {
		groups.get(r.CategoryLabel()).add(r)
	}

	stats := make([]CategoryStats, 0, groups.len())
	groups.each(func(label string, acc *accumulator) {
		stats = append(stats, CategoryStats{
			Category:          label,
			Count:             acc.count,
			TotalTime:         acc.totalTime,
			TotalHours:        model.Hours(acc.totalTime),
			AverageDifficulty: acc.averageDifficulty(),
			AverageTime:       acc.averageTime(),
		})
	})
	return stats
}

// ByDifficulty groups records by literal difficulty value, ascending. Values
// outside 1..5 get their own groups.
func ByDifficulty(records []*model.Record) []DifficultyStats {
	var levels [model.MaxDifficulty + 1]accumulator
	overflow := make(map[int]*accumulator)

	for _, r := range records {
		if r.Difficulty >= model.MinDifficulty && r.Difficulty <= model.MaxDifficulty {
			levels[r.Difficulty].add(r)
			continue
		}
		acc, ok := overflow[r.Difficulty]
		if !ok {
			acc = &accumulator{}
			overflow[r.Difficulty] = acc
		}
		acc.add(r)
	}

	stats := make([]DifficultyStats, 0, model.MaxDifficulty+len(overflow))
	appendStats := func(d int, acc *accumulator) {
		stats = append(stats, DifficultyStats{
			Difficulty:  d,
			Count:       acc.count,
			TotalTime:   acc.totalTime,
			TotalHours:  model.Hours(acc.totalTime),
			AverageTime: acc.averageTime(),
		})
	}

	for d := model.MinDifficulty; d <= model.MaxDifficulty; d++ {
		if levels[d].count > 0 {
			appendStats(d, &levels[d])
		}
	}
	for d, acc := range overflow {
		appendStats(d, acc)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Difficulty < stats[j].Difficulty
	})
	return stats
}

// ComputeTimeDistribution counts records into short (<30), medium ([30,120))
// and long (>=120) buckets
func ComputeTimeDistribution(records []*model.Record) TimeDistribution {
	var dist TimeDistribution
	for _, r := range records {
		switch {
		case r.StudyTime < ShortSessionLimit:
			dist.Short++
		case r.StudyTime < LongSessionThreshold:
			dist.Medium++
		default:
			dist.Long++
		}
	}
	dist.TotalRecords = len(records)
	return dist
}

// Timeline groups records by the UTC calendar day of created_at, ascending
func Timeline(records []*model.Record) []DayStats {
	groups := newOrderedGroups[string, accumulator]()
	for _, r := range records {
		groups.get(r.CreatedAt.UTC().Format(timelineDateFormat)).add(r)
	}

	days := make([]DayStats, 0, groups.len())
	groups.each(func(date string, acc *accumulator) {
		days = append(days, DayStats{
			Date:       date,
			TotalTime:  acc.totalTime,
			TotalHours: model.Hours(acc.totalTime),
			Count:      acc.count,
		})
	})

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
