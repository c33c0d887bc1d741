package record

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

// Update applies a partial update to an existing record
func (u *UseCase) Update(ctx context.Context, id model.RecordID, update model.RecordUpdate) (*model.Record, error) {
	if update.IsEmpty() {
		return nil, goerr.Wrap(model.ErrNoFieldsToUpdate, "failed to update record", goerr.V("id", id))
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := u.Show(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.policy.Enabled() {
		next := *current
		update.Apply(&next, u.now())
		if err := u.policy.Check(ctx, policy.Input{Action: policy.ActionUpdate, Record: &next}); err != nil {
			return nil, err
		}
	}

	ok, err := u.store.Update(ctx, id, &update)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, goerr.Wrap(model.ErrRecordNotFound, "failed to update record", goerr.V("id", id))
	}

	logging.From(ctx).Info("record updated", "id", id)
	return u.Show(ctx, id)
}
