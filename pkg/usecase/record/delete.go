package record

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

// Delete removes a record
func (u *UseCase) Delete(ctx context.Context, id model.RecordID) error {
	ok, err := u.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return goerr.Wrap(model.ErrRecordNotFound, "failed to delete record", goerr.V("id", id))
	}

	logging.From(ctx).Info("record deleted", "id", id)
	return nil
}
