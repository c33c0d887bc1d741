package record

import (
	"context"

	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

// Search finds records by keyword
func (u *UseCase) Search(ctx context.Context, opts query.SearchOptions) ([]*model.Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	records, err := u.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	return query.Search(records, opts)
}
