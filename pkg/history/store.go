package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Store persists validation runs in a SQLite database.
//
// The store uses a write-ahead log (WAL) for better concurrent performance
// and automatic checkpointing to balance write performance with durability.
type Store struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	// preparedStatements contains pre-compiled SQL statements for reuse
	saveStmt  *sql.Stmt
	getStmt   *sql.Stmt
	pruneStmt *sql.Stmt
}

// StoreConfig configures the run store.
type StoreConfig struct {
	// Path is the path to the SQLite database file. Parent directories
	// are created if missing.
	Path string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// ListOptions filters and limits List results.
type ListOptions struct {
	// File restricts results to runs of the given file path. Empty
	// matches all files.
	File string

	// Limit caps the number of returned runs. Zero means no limit.
	Limit int
}

// NewStore creates a run store with default settings.
func NewStore(path string) (*Store, error) {
	return NewStoreWithConfig(StoreConfig{
		Path:               path,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewStoreWithConfig creates a run store with custom configuration.
func NewStoreWithConfig(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{
		db:                 db,
		dbPath:             cfg.Path,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go store.checkpointLoop()

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		delimiter TEXT NOT NULL,
		lazy_quotes INTEGER NOT NULL,
		strict_rfc4180 INTEGER NOT NULL,
		valid INTEGER NOT NULL,
		fatal INTEGER NOT NULL,
		record_count INTEGER NOT NULL,
		defect_count INTEGER NOT NULL,
		defects TEXT,
		started_at INTEGER NOT NULL,
		duration_us INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *Store) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO runs (id, file, delimiter, lazy_quotes, strict_rfc4180,
			valid, fatal, record_count, defect_count, defects, started_at, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, file, delimiter, lazy_quotes, strict_rfc4180,
			valid, fatal, record_count, defects, started_at, duration_us
		FROM runs
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM runs
		WHERE started_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Save persists a run, assigning an ID if it has none.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if run.File == "" {
		return fmt.Errorf("run file cannot be empty")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var defectsJSON []byte
	if len(run.Defects) > 0 {
		var err error
		defectsJSON, err = json.Marshal(run.Defects)
		if err != nil {
			return fmt.Errorf("failed to marshal defects: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		run.ID,
		run.File,
		run.Delimiter,
		boolToInt(run.LazyQuotes),
		boolToInt(run.StrictRFC4180),
		boolToInt(run.Valid),
		boolToInt(run.Fatal),
		run.RecordCount,
		len(run.Defects),
		string(defectsJSON),
		run.StartedAt.UnixMicro(),
		run.Duration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID. It returns nil with no error when the run
// does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("run id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return run, nil
}

// List returns runs ordered newest first, subject to the given options.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Run, error) {
	query := `
		SELECT id, file, delimiter, lazy_quotes, strict_rfc4180,
			valid, fatal, record_count, defects, started_at, duration_us
		FROM runs
	`
	var args []any
	if opts.File != "" {
		query += " WHERE file = ?"
		args = append(args, opts.File)
	}
	query += " ORDER BY started_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return runs, nil
}

// Prune removes runs started before the given time and returns the number
// of deleted runs.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(deleted), nil
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *Store) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.getStmt != nil {
			s.getStmt.Close()
		}
		if s.pruneStmt != nil {
			s.pruneStmt.Close()
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *Store) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run         Run
		lazyQuotes  int
		strict      int
		valid       int
		fatal       int
		defectsJSON sql.NullString
		startedAt   int64
		durationUS  int64
	)

	err := row.Scan(
		&run.ID,
		&run.File,
		&run.Delimiter,
		&lazyQuotes,
		&strict,
		&valid,
		&fatal,
		&run.RecordCount,
		&defectsJSON,
		&startedAt,
		&durationUS,
	)
	if err != nil {
		return nil, err
	}

	run.LazyQuotes = lazyQuotes != 0
	run.StrictRFC4180 = strict != 0
	run.Valid = valid != 0
	run.Fatal = fatal != 0
	run.StartedAt = time.UnixMicro(startedAt)
	run.Duration = time.Duration(durationUS) * time.Microsecond

	if defectsJSON.Valid && defectsJSON.String != "" {
		if err := json.Unmarshal([]byte(defectsJSON.String), &run.Defects); err != nil {
			return nil, fmt.Errorf("failed to unmarshal defects: %w", err)
		}
	}

	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
