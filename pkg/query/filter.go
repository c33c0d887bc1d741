// Package query implements filtering, pagination and aggregation over a
// snapshot of study records. Every function is pure: it reads the given records
// and never mutates or persists them.
package query

import (
	"strings"
	"time"

	"github.com/syokota-cyber/study-tracker/pkg/model"
)

// Criteria is the set of optional filter predicates. Zero value matches all.
type Criteria struct {
	// Category is a case-insensitive substring of the record category
	Category string
	// Difficulty is an exact match
	Difficulty *int
	// MinTime and MaxTime are inclusive bounds on study time in minutes
	MinTime *int
	MaxTime *int
	// Keyword is a case-insensitive substring of title or content
	Keyword string
	// Days keeps records created within the last N days
	Days *int
}

// IsZero returns true if no predicate is set
func (c Criteria) IsZero() bool {
	return c.Category == "" &&
		c.Difficulty == nil &&
		c.MinTime == nil &&
		c.MaxTime == nil &&
		c.Keyword == "" &&
		c.Days == nil
}

// Filter returns the records matching every set predicate, in input order
func Filter(records []*model.Record, c Criteria, now time.Time) []*model.Record {
	match := c.matcher(now)

	filtered := make([]*model.Record, 0, len(records))
	for _, r := range records {
		if match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Match reports whether a single record satisfies the criteria
func (c Criteria) Match(r *model.Record, now time.Time) bool {
	return c.matcher(now)(r)
}

func (c Criteria) matcher(now time.Time) func(*model.Record) bool {
	category := strings.ToLower(c.Category)
	keyword := strings.ToLower(c.Keyword)

	var since time.Time
	if c.Days != nil {
		since = now.AddDate(0, 0, -*c.Days)
	}

	return func(r *model.Record) bool {
		if category != "" {
			if r.Category == "" || !strings.Contains(strings.ToLower(r.Category), category) {
				return false
			}
		}
		if c.Difficulty != nil && r.Difficulty != *c.Difficulty {
			return false
		}
		if c.MinTime != nil && r.StudyTime < *c.MinTime {
			return false
		}
		if c.MaxTime != nil && r.StudyTime > *c.MaxTime {
			return false
		}
		if keyword != "" {
			inTitle := strings.Contains(strings.ToLower(r.Title), keyword)
			inContent := r.Content != "" && strings.Contains(strings.ToLower(r.Content), keyword)
			if !inTitle && !inContent {
				return false
			}
		}
		if c.Days != nil && r.CreatedAt.Before(since) {
			return false
		}
		return true
	}
}
