package query_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

func ptr[T any](v T) *T {
	return &v
}

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newRecord(id, title, content string, studyTime int, category string, difficulty int, age time.Duration) *model.Record {
	created := baseTime.Add(-age)
	return &model.Record{
		ID:         model.RecordID(id),
		Title:      title,
		Content:    content,
		StudyTime:  studyTime,
		Category:   category,
		Difficulty: difficulty,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func sampleRecords() []*model.Record {
	day := 24 * time.Hour
	return []*model.Record{
		newRecord("1", "Python basics", "lists and dicts", 60, "Programming", 3, 0),
		newRecord("2", "Go channels", "select with python-like generators", 90, "programming", 2, 2*day),
		newRecord("3", "Git rebase", "", 45, "Tools", 1, 10*day),
		newRecord("4", "SQL joins", "inner and outer", 150, "", 4, 40*day),
		newRecord("5", "Shell tricks", "awk", 20, "tools", 5, 3*day),
	}
}

func ids(records []*model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID.String()
	}
	return out
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		name     string
		criteria query.Criteria
		expected []string
	}{
		{"no criteria", query.Criteria{}, []string{"1", "2", "3", "4", "5"}},
		{"category is case-insensitive substring", query.Criteria{Category: "PROG"}, []string{"1", "2"}},
		{"category never matches empty", query.Criteria{Category: "o"}, []string{"1", "2", "3", "5"}},
		{"difficulty exact", query.Criteria{Difficulty: ptr(1)}, []string{"3"}},
		{"min time inclusive", query.Criteria{MinTime: ptr(60)}, []string{"1", "2", "4"}},
		{"max time inclusive", query.Criteria{MaxTime: ptr(45)}, []string{"3", "5"}},
		{"time range", query.Criteria{MinTime: ptr(45), MaxTime: ptr(90)}, []string{"1", "2", "3"}},
		{"keyword in title or content", query.Criteria{Keyword: "Python"}, []string{"1", "2"}},
		{"days window", query.Criteria{Days: ptr(7)}, []string{"1", "2", "5"}},
		{"criteria AND together", query.Criteria{Category: "tools", MaxTime: ptr(30)}, []string{"5"}},
		{"no match", query.Criteria{Keyword: "rust"}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := query.Filter(sampleRecords(), tc.criteria, baseTime)
			gt.Equal(t, ids(got), tc.expected)
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	criteria := []query.Criteria{
		{},
		{Category: "prog"},
		{Keyword: "python", MinTime: ptr(10)},
		{Days: ptr(5), MaxTime: ptr(100)},
	}

	for _, c := range criteria {
		once := query.Filter(sampleRecords(), c, baseTime)
		twice := query.Filter(once, c, baseTime)
		gt.Equal(t, ids(twice), ids(once))
	}
}

func TestFilterNoCriteriaIsIdentity(t *testing.T) {
	records := sampleRecords()
	got := query.Filter(records, query.Criteria{}, baseTime)
	gt.A(t, got).Length(len(records))
	for i := range records {
		gt.True(t, got[i] == records[i])
	}
	gt.True(t, query.Criteria{}.IsZero())
	gt.False(t, query.Criteria{Days: ptr(0)}.IsZero())
}

func TestFilterKeywordScenario(t *testing.T) {
	records := []*model.Record{
		newRecord("a", "Learning PYTHON", "", 30, "", 1, 0),
		newRecord("b", "Rust ownership", "borrow checker", 30, "", 1, 0),
		newRecord("c", "Notes", "python decorators", 30, "", 1, 0),
		newRecord("d", "Java", "", 30, "", 1, 0),
	}

	got := query.Filter(records, query.Criteria{Keyword: "Python"}, baseTime)
	gt.Equal(t, ids(got), []string{"a", "c"})
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := ids(records)
	_ = query.Filter(records, query.Criteria{Category: "tools"}, baseTime)
	gt.Equal(t, ids(records), before)
}
