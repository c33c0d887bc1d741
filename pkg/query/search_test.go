package query_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

func TestSearch(t *testing.T) {
	testCases := []struct {
		name     string
		opts     query.SearchOptions
		expected []string
	}{
		{"title or content", query.SearchOptions{Keyword: "python"}, []string{"1", "2"}},
		{"title only", query.SearchOptions{Keyword: "python", TitleOnly: true}, []string{"1"}},
		{"content only", query.SearchOptions{Keyword: "python", ContentOnly: true}, []string{"2"}},
		{"case sensitive", query.SearchOptions{Keyword: "Python", CaseSensitive: true}, []string{"1"}},
		{"limit", query.SearchOptions{Keyword: "o", Limit: 2}, []string{"1", "2"}},
		{"no hit", query.SearchOptions{Keyword: "haskell"}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := query.Search(sampleRecords(), tc.opts)
			gt.NoError(t, err)
			gt.Equal(t, ids(got), tc.expected)
		})
	}
}

func TestSearchInvalidOptions(t *testing.T) {
	_, err := query.Search(sampleRecords(), query.SearchOptions{Keyword: "  "})
	gt.True(t, errors.Is(err, query.ErrEmptyKeyword))

	_, err = query.Search(sampleRecords(), query.SearchOptions{Keyword: "go", TitleOnly: true, ContentOnly: true})
	gt.True(t, errors.Is(err, query.ErrConflictingScope))

	_, err = query.Search(sampleRecords(), query.SearchOptions{Keyword: "go", Limit: -1})
	gt.True(t, errors.Is(err, query.ErrInvalidSearchLimit))
}
