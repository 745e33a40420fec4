package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/vera/foundation/core/error"
	"github.com/msto63/vera/foundation/vera"
)

// Status is the outcome of a recorded run
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Record is one tokenize or parse run
type Record struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Source       string        `json:"source"` // file name, "-" for stdin, "rpc" for the service
	SHA256       string        `json:"sha256"`
	Bytes        int           `json:"bytes"`
	Tokens       int           `json:"tokens"`
	Statements   int           `json:"statements"`
	Status       Status        `json:"status"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// NewRecord builds a record from an engine run. res is ignored when err is
// set.
func NewRecord(name, src string, res *vera.Result, err error, duration time.Duration) *Record {
	sum := sha256.Sum256([]byte(src))
	r := &Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    name,
		SHA256:    hex.EncodeToString(sum[:]),
		Bytes:     len(src),
		Status:    StatusOK,
		Duration:  duration,
	}
	if err != nil {
		r.Status = StatusError
		r.ErrorCode = mdwerror.GetCode(err).String()
		r.ErrorMessage = err.Error()
		return r
	}
	if res != nil {
		r.ID = res.RunID
		r.Tokens = len(res.Tokens)
		r.Statements = res.Statements
		r.Duration = res.Duration
	}
	return r
}

// Stats summarizes the stored history
type Stats struct {
	Total           int64            `json:"total"`
	OK              int64            `json:"ok"`
	Errors          int64            `json:"errors"`
	ErrorsByCode    map[string]int64 `json:"errors_by_code"`
	AverageDuration time.Duration    `json:"average_duration"`
	Oldest          time.Time        `json:"oldest,omitempty"`
	Newest          time.Time        `json:"newest,omitempty"`
}

// HistoryStore persists run records
type HistoryStore interface {
	Record(ctx context.Context, r *Record) error
	Recent(ctx context.Context, limit int) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteHistoryStore implements HistoryStore using SQLite
type SQLiteHistoryStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// NewSQLiteHistoryStore opens (and creates) the history database
func NewSQLiteHistoryStore(cfg SQLiteConfig) (*SQLiteHistoryStore, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("history path is empty").WithCode(mdwerror.CodeInvalidConfig)
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageError(err, "failed to create directory", "store.Open").WithDetail("path", dir)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "failed to open database", "store.Open").WithDetail("path", cfg.Path)
	}

	store := &SQLiteHistoryStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "store.Open").WithDetail("path", cfg.Path)
	}

	return store, nil
}

func storageError(err error, msg, op string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).WithCode(mdwerror.CodeStorage).WithOperation(op)
}

// initSchema creates the necessary tables
func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		source TEXT NOT NULL,
		sha256 TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		tokens INTEGER NOT NULL,
		statements INTEGER NOT NULL,
		status TEXT NOT NULL,
		error_code TEXT,
		error_message TEXT,
		duration_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	CREATE INDEX IF NOT EXISTS idx_runs_sha256 ON runs(sha256);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run. A missing ID or timestamp is filled in.
func (s *SQLiteHistoryStore) Record(ctx context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fillRecord(r)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, timestamp, source, sha256, bytes, tokens, statements, status, error_code, error_message, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Timestamp, r.Source, r.SHA256, r.Bytes, r.Tokens, r.Statements, string(r.Status),
		nullString(r.ErrorCode), nullString(r.ErrorMessage), int64(r.Duration))
	if err != nil {
		return storageError(err, "failed to insert run", "store.Record")
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 means 20.
func (s *SQLiteHistoryStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, source, sha256, bytes, tokens, statements, status, error_code, error_message, duration_ns
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageError(err, "failed to query runs", "store.Recent")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var status string
		var code, msg sql.NullString
		var durationNS int64

		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Source, &r.SHA256, &r.Bytes, &r.Tokens,
			&r.Statements, &status, &code, &msg, &durationNS); err != nil {
			return nil, storageError(err, "failed to scan run", "store.Recent")
		}
		r.Status = Status(status)
		r.ErrorCode = code.String
		r.ErrorMessage = msg.String
		r.Duration = time.Duration(durationNS)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to read runs", "store.Recent")
	}
	return records, nil
}

// Stats returns aggregate counts over all stored runs
func (s *SQLiteHistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ErrorsByCode: make(map[string]int64)}

	var avg sql.NullFloat64
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0),
			AVG(duration_ns), MIN(timestamp), MAX(timestamp)
		FROM runs
	`).Scan(&stats.Total, &stats.OK, &avg, &oldest, &newest)
	if err != nil {
		return nil, storageError(err, "failed to aggregate runs", "store.Stats")
	}
	stats.Errors = stats.Total - stats.OK
	if avg.Valid {
		stats.AverageDuration = time.Duration(avg.Float64)
	}
	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)

	rows, err := s.db.QueryContext(ctx, `
		SELECT error_code, COUNT(*) FROM runs WHERE status = 'error' GROUP BY error_code
	`)
	if err != nil {
		return nil, storageError(err, "failed to group errors", "store.Stats")
	}
	defer rows.Close()

	for rows.Next() {
		var code sql.NullString
		var count int64
		if err := rows.Scan(&code, &count); err != nil {
			return nil, storageError(err, "failed to scan error group", "store.Stats")
		}
		stats.ErrorsByCode[code.String] = count
	}
	return stats, rows.Err()
}

// Prune removes runs older than olderThan and returns how many were removed
func (s *SQLiteHistoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune runs", "store.Prune")
	}
	return result.RowsAffected()
}

// Ping checks the database connection
func (s *SQLiteHistoryStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "history database unreachable", "store.Ping")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

func fillRecord(r *Record) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = StatusOK
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// MIN/MAX over DATETIME come back as text in the driver's layout
func parseTimestamp(ns sql.NullString) time.Time {
	if !ns.Valid {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MemoryHistoryStore is an in-memory implementation for tests and for runs
// with history disabled
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryHistoryStore creates an empty in-memory store
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Record stores a copy of r
func (s *MemoryHistoryStore) Record(ctx context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fillRecord(r)
	cp := *r
	s.records = append(s.records, &cp)
	return nil
}

// Recent returns up to limit records, newest first
func (s *MemoryHistoryStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	// reversed first so that equal timestamps list the latest insert first
	out := make([]*Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats returns aggregate counts
func (s *MemoryHistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ErrorsByCode: make(map[string]int64)}
	var total time.Duration
	for _, r := range s.records {
		stats.Total++
		total += r.Duration
		if r.Status == StatusOK {
			stats.OK++
		} else {
			stats.Errors++
			stats.ErrorsByCode[r.ErrorCode]++
		}
		if stats.Oldest.IsZero() || r.Timestamp.Before(stats.Oldest) {
			stats.Oldest = r.Timestamp
		}
		if r.Timestamp.After(stats.Newest) {
			stats.Newest = r.Timestamp
		}
	}
	if stats.Total > 0 {
		stats.AverageDuration = total / time.Duration(stats.Total)
	}
	return stats, nil
}

// Prune removes old records
func (s *MemoryHistoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Ping always succeeds
func (s *MemoryHistoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryHistoryStore) Close() error {
	return nil
}
