package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/adapter"
	"github.com/syokota-cyber/study-tracker/pkg/interfaces"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/repository"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	backend           string
	dbPath            string
	firestoreProject  string
	firestoreDatabase string

	logLevel  string
	policyDir string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "Record store backend (sqlite, firestore, memory)",
			Value:       string(repository.BackendSQLite),
			Sources:     cli.EnvVars("STUDY_TRACKER_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "SQLite database file",
			Value:       "study_tracker.db",
			Sources:     cli.EnvVars("STUDY_TRACKER_DB"),
			Destination: &cfg.dbPath,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID for Firestore",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.firestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("STUDY_TRACKER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego files with record deny rules",
			Sources:     cli.EnvVars("STUDY_TRACKER_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
	}
}

// withLogger attaches a console logger at --log-level writing to the error
// writer of the root command
func (cfg *config) withLogger(ctx context.Context, c *cli.Command) context.Context {
	return logging.With(ctx, logging.New(cfg.logLevel, c.Root().ErrWriter))
}

// newStore creates the record store selected by --backend
func (cfg *config) newStore(ctx context.Context) (interfaces.RecordStore, error) {
	store, err := repository.New(ctx, repository.Config{
		Backend:           repository.Backend(strings.ToLower(cfg.backend)),
		DBPath:            cfg.dbPath,
		FirestoreProject:  cfg.firestoreProject,
		FirestoreDatabase: cfg.firestoreDatabase,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create record store", goerr.V("backend", cfg.backend))
	}
	return store, nil
}

// newUseCase opens the store and loads policy rules. The returned close func
// releases the store.
func (cfg *config) newUseCase(ctx context.Context) (*record.UseCase, func(), error) {
	store, err := cfg.newStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := store.Close(); err != nil {
			logging.From(ctx).Warn("failed to close record store", logging.ErrAttr(err))
		}
	}

	var opts []record.Option
	if cfg.policyDir != "" {
		engine, err := policy.Load(ctx, cfg.policyDir)
		if err != nil {
			closer()
			return nil, nil, err
		}
		opts = append(opts, record.WithPolicy(engine))
	}

	return record.New(store, opts...), closer, nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// filterConfig holds the record filter flags shared by list, stats and export
type filterConfig struct {
	category   string
	difficulty int64
	minTime    int64
	maxTime    int64
	keyword    string
	days       int64
}

func filterFlags(f *filterConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Filter by category (case-insensitive substring)",
			Destination: &f.category,
		},
		&cli.IntFlag{
			Name:        "difficulty",
			Usage:       "Filter by difficulty (1-5)",
			Destination: &f.difficulty,
		},
		&cli.IntFlag{
			Name:        "min-time",
			Usage:       "Minimum study time in minutes",
			Destination: &f.minTime,
		},
		&cli.IntFlag{
			Name:        "max-time",
			Usage:       "Maximum study time in minutes",
			Destination: &f.maxTime,
		},
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "Keyword in title or content",
			Destination: &f.keyword,
		},
		&cli.IntFlag{
			Name:        "days",
			Usage:       "Only records created within the last N days",
			Destination: &f.days,
		},
	}
}

var errNegativeDays = goerr.New("days must not be negative")

// criteria builds query criteria from the flags explicitly given on the command line
func (f *filterConfig) criteria(c *cli.Command) (query.Criteria, error) {
	intFlag := func(name string, v int64) *int {
		if !c.IsSet(name) {
			return nil
		}
		n := int(v)
		return &n
	}

	criteria := query.Criteria{
		Category:   f.category,
		Difficulty: intFlag("difficulty", f.difficulty),
		MinTime:    intFlag("min-time", f.minTime),
		MaxTime:    intFlag("max-time", f.maxTime),
		Keyword:    f.keyword,
		Days:       intFlag("days", f.days),
	}
	if criteria.Days != nil && *criteria.Days < 0 {
		return query.Criteria{}, goerr.Wrap(errNegativeDays, "invalid filter", goerr.V("days", f.days))
	}
	return criteria, nil
}
