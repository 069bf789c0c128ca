package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/ascent/internal/logging"
	"github.com/roach88/ascent/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (climbers, lead/boulder/speed results)
const currentSchemaVersion = 1

// ErrStorage is wrapped by every error caused by the database itself
// (unreachable file, permission denied, full disk, ...).
var ErrStorage = errors.New("storage failure")

// Store provides durable storage for climbers and results.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	climbers *ClimberCollection
	leads    *ResultCollection[model.LeadResult]
	boulders *ResultCollection[model.BoulderResult]
	speeds   *ResultCollection[model.SpeedResult]

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for soft failures such as duplicate
// inserts. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times on one path.
func Open(path string, opts ...Option) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w: %w", ErrStorage, err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w: %w", ErrStorage, err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w: %w", ErrStorage, err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w: %w", ErrStorage, err)
	}

	s := &Store{
		db:     db,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.climbers = &ClimberCollection{Collection: newCollection(s, climberTable)}
	s.leads = &ResultCollection[model.LeadResult]{Collection: newCollection(s, leadTable)}
	s.boulders = &ResultCollection[model.BoulderResult]{Collection: newCollection(s, boulderTable)}
	s.speeds = &ResultCollection[model.SpeedResult]{Collection: newCollection(s, speedTable)}

	return s, nil
}

// Close closes the database connection. Safe to call more than once; only
// the first call releases the handle.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

// Climbers returns the climber collection.
func (s *Store) Climbers() *ClimberCollection { return s.climbers }

// Leads returns the lead result collection.
func (s *Store) Leads() *ResultCollection[model.LeadResult] { return s.leads }

// Boulders returns the boulder result collection.
func (s *Store) Boulders() *ResultCollection[model.BoulderResult] { return s.boulders }

// Speeds returns the speed result collection.
func (s *Store) Speeds() *ResultCollection[model.SpeedResult] { return s.speeds }

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the schema
// version. This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
