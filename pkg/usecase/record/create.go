package record

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

// Create validates the input, checks policy rules and stores a new record
func (u *UseCase) Create(ctx context.Context, input model.RecordInput) (*model.Record, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := u.policy.Check(ctx, policy.Input{
		Action: policy.ActionCreate,
		Record: input.Build("", u.now()),
	}); err != nil {
		return nil, err
	}

	id, err := u.store.Insert(ctx, &input)
	if err != nil {
		return nil, err
	}

	record, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, goerr.New("created record disappeared", goerr.V("id", id))
	}

	logging.From(ctx).Info("record created", "id", id, "title", record.Title)
	return record, nil
}
