// Package repository provides RecordStore implementations: an embedded SQLite
// database, Google Cloud Firestore and an in-memory store.
package repository

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/interfaces"
)

// Backend names a RecordStore implementation
type Backend string

const (
	BackendSQLite    Backend = "sqlite"
	BackendFirestore Backend = "firestore"
	BackendMemory    Backend = "memory"
)

var ErrUnknownBackend = goerr.New("unknown storage backend")

// Config selects and configures a backend
type Config struct {
	Backend           Backend
	DBPath            string
	FirestoreProject  string
	FirestoreDatabase string
}

type options struct {
	now        func() time.Time
	collection string
}

func newOptions(opts []Option) *options {
	o := &options{
		now:        time.Now,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) timestamp() time.Time {
	return o.now().UTC()
}

// Option configures a store
type Option func(*options)

// WithClock sets the clock used to stamp created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithCollection sets the Firestore collection name
func WithCollection(name string) Option {
	return func(o *options) {
		o.collection = name
	}
}

// New opens the store selected by cfg
func New(ctx context.Context, cfg Config, opts ...Option) (interfaces.RecordStore, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return NewSQLite(cfg.DBPath, opts...)
	case BackendFirestore:
		return NewFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase, opts...)
	case BackendMemory:
		return NewMemory(opts...), nil
	default:
		return nil, goerr.Wrap(ErrUnknownBackend, "failed to open store", goerr.V("backend", cfg.Backend))
	}
}
