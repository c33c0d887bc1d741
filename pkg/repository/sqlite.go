package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	_ "modernc.org/sqlite"
)

// Timestamps are stored as fixed-width UTC text so that lexical order of the
// column matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS study_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	study_time INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	difficulty INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_study_records_created_at ON study_records (created_at);
`

const sqliteColumns = "id, title, content, study_time, category, difficulty, created_at, updated_at"

// SQLite is a RecordStore backed by an embedded SQLite database file
type SQLite struct {
	conn *sql.DB
	opts *options
}

// NewSQLite opens or creates the database at path and ensures the schema
func NewSQLite(path string, opts ...Option) (*SQLite, error) {
	if path == "" {
		return nil, goerr.New("sqlite database path is required")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// A single connection serializes writers and keeps per-connection pragmas
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, goerr.Wrap(err, "failed to set WAL mode", goerr.V("path", path))
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, goerr.Wrap(err, "failed to create schema", goerr.V("path", path))
	}

	return &SQLite{conn: conn, opts: newOptions(opts)}, nil
}

func (s *SQLite) Insert(ctx context.Context, input *model.RecordInput) (model.RecordID, error) {
	now := formatSQLiteTime(s.opts.timestamp())

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO study_records (title, content, study_time, category, difficulty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Title, input.Content, input.StudyTime, input.Category, input.Difficulty, now, now)
	if err != nil {
		return "", goerr.Wrap(err, "failed to insert record", goerr.V("title", input.Title))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", goerr.Wrap(err, "failed to get inserted record id")
	}
	return model.RecordID(strconv.FormatInt(id, 10)), nil
}

func (s *SQLite) Get(ctx context.Context, id model.RecordID) (*model.Record, error) {
	key, ok := parseSQLiteID(id)
	if !ok {
		return nil, nil
	}

	row := s.conn.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM study_records WHERE id = ?", key)
	record, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get record", goerr.V("id", id))
	}
	return record, nil
}

func (s *SQLite) ScanAll(ctx context.Context) ([]*model.Record, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+sqliteColumns+" FROM study_records ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan records")
	}
	defer rows.Close()

	records := make([]*model.Record, 0)
	for rows.Next() {
		record, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read record row")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate records")
	}
	return records, nil
}

func (s *SQLite) Update(ctx context.Context, id model.RecordID, update *model.RecordUpdate) (bool, error) {
	key, ok := parseSQLiteID(id)
	if !ok {
		return false, nil
	}

	fields := update.Fields()
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		sets = append(sets, f.Name+" = ?")
		args = append(args, f.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatSQLiteTime(s.opts.timestamp()), key)

	res, err := s.conn.ExecContext(ctx,
		"UPDATE study_records SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, goerr.Wrap(err, "failed to update record", goerr.V("id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	return n > 0, nil
}

func (s *SQLite) Delete(ctx context.Context, id model.RecordID) (bool, error) {
	key, ok := parseSQLiteID(id)
	if !ok {
		return false, nil
	}

	res, err := s.conn.ExecContext(ctx, "DELETE FROM study_records WHERE id = ?", key)
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete record", goerr.V("id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	return n > 0, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (*model.Record, error) {
	var (
		id                   int64
		record               model.Record
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &record.Title, &record.Content, &record.StudyTime,
		&record.Category, &record.Difficulty, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if record.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, goerr.Wrap(err, "invalid created_at", goerr.V("id", id), goerr.V("value", createdAt))
	}
	if record.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, goerr.Wrap(err, "invalid updated_at", goerr.V("id", id), goerr.V("value", updatedAt))
	}
	record.ID = model.RecordID(strconv.FormatInt(id, 10))
	return &record, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// parseSQLiteID converts a record ID to the integer key. Non-numeric IDs can
// never exist in this store and are reported as a miss.
func parseSQLiteID(id model.RecordID) (int64, bool) {
	key, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return key, true
}
