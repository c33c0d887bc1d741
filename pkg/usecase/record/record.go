// Package record implements the study record use cases shared by the HTTP API,
// the CLI and the MCP server. A UseCase takes one snapshot of the store per
// call and runs filtering, pagination and aggregation in memory.
package record

import (
	"context"
	"time"

	"github.com/syokota-cyber/study-tracker/pkg/interfaces"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/query"
)

// UseCase provides record operations over a RecordStore
type UseCase struct {
	store  interfaces.RecordStore
	policy *policy.Engine
	now    func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock sets the clock used for relative date filters and export names
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// WithPolicy sets the policy engine checked on create and update
func WithPolicy(engine *policy.Engine) Option {
	return func(uc *UseCase) {
		uc.policy = engine
	}
}

// New creates a new record UseCase instance
func New(store interfaces.RecordStore, opts ...Option) *UseCase {
	uc := &UseCase{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Now returns the current time of the use case clock
func (u *UseCase) Now() time.Time {
	return u.now()
}

// Snapshot returns all records matching criteria, newest first
func (u *UseCase) Snapshot(ctx context.Context, criteria query.Criteria) ([]*model.Record, error) {
	records, err := u.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	if criteria.IsZero() {
		return records, nil
	}
	return query.Filter(records, criteria, u.now()), nil
}
