package record

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
)

// Show retrieves a single record
func (u *UseCase) Show(ctx context.Context, id model.RecordID) (*model.Record, error) {
	record, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, goerr.Wrap(model.ErrRecordNotFound, "failed to show record", goerr.V("id", id))
	}

	return record, nil
}
