package record

import (
	"context"

	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

// ListOptions contains options for listing records
type ListOptions struct {
	Criteria query.Criteria
	Page     int
	// Limit 0 returns every matching record on a single page
	Limit int
}

// ListResult is one page of matching records
type ListResult struct {
	Records []*model.Record
	Page    query.Page
}

// List filters the snapshot and returns the requested page
func (u *UseCase) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	page := opts.Page
	if page == 0 {
		page = query.DefaultPage
	}
	if opts.Limit != 0 {
		if err := query.ValidatePage(page, opts.Limit); err != nil {
			return nil, err
		}
	}

	records, err := u.Snapshot(ctx, opts.Criteria)
	if err != nil {
		return nil, err
	}

	if opts.Limit == 0 {
		return &ListResult{
			Records: records,
			Page:    query.Paginate(len(records), 1, max(len(records), 1)),
		}, nil
	}

	p := query.Paginate(len(records), page, opts.Limit)
	return &ListResult{
		Records: query.Slice(records, p),
		Page:    p,
	}, nil
}
