package query

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
)

var (
	ErrEmptyKeyword       = goerr.New("keyword is required")
	ErrConflictingScope   = goerr.New("title_only and content_only cannot be combined")
	ErrInvalidSearchLimit = goerr.New("limit must not be negative")
)

// SearchOptions configures keyword search
type SearchOptions struct {
	Keyword       string
	TitleOnly     bool
	ContentOnly   bool
	CaseSensitive bool
	// Limit truncates the result when positive
	Limit int
}

// Validate checks the search options
func (o SearchOptions) Validate() error {
	if strings.TrimSpace(o.Keyword) == "" {
		return ErrEmptyKeyword
	}
	if o.TitleOnly && o.ContentOnly {
		return ErrConflictingScope
	}
	if o.Limit < 0 {
		return goerr.Wrap(ErrInvalidSearchLimit, "invalid search options", goerr.V("limit", o.Limit))
	}
	return nil
}

// Search returns records whose title and/or content contain the keyword, in
// input order
func Search(records []*model.Record, opts SearchOptions) ([]*model.Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	keyword := opts.Keyword
	normalize := func(s string) string { return s }
	if !opts.CaseSensitive {
		keyword = strings.ToLower(keyword)
		normalize = strings.ToLower
	}

	results := make([]*model.Record, 0)
	for _, r := range records {
		var hit bool
		if !opts.ContentOnly {
			hit = strings.Contains(normalize(r.Title), keyword)
		}
		if !hit && !opts.TitleOnly {
			hit = r.Content != "" && strings.Contains(normalize(r.Content), keyword)
		}
		if !hit {
			continue
		}

		results = append(results, r)
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	return results, nil
}
