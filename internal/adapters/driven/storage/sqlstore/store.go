package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq" // Postgres driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vetdesk/internal/adapters/driven/storage/sqlstore/migrations"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// DSNEnv overrides the configured Postgres DSN.
const DSNEnv = "VETDESK_DSN"

// Store is a SQL-backed storage that provides access to all
// store interfaces through wrapper types.
type Store struct {
	db      *sql.DB
	dialect Dialect
	path    string
}

// Open connects to the backend selected by settings.
func Open(settings domain.StorageSettings) (*Store, error) {
	switch settings.Driver {
	case domain.StoragePostgres:
		dsn := settings.DSN
		if env := os.Getenv(DSNEnv); env != "" {
			dsn = env
		}
		return OpenPostgres(dsn)
	case domain.StorageSQLite, "":
		return NewStore(settings.DataDir)
	default:
		return nil, fmt.Errorf("storage driver %q: %w", settings.Driver, domain.ErrUnsupportedType)
	}
}

// NewStore creates a SQLite store in the given data directory.
// If dataDir is empty, defaults to ~/.vetdesk/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vetdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vetdesk.db")

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open(string(SQLite), dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s, err := OpenDB(db, SQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.path = dbPath
	return s, nil
}

// OpenPostgres connects to a PostgreSQL database.
func OpenPostgres(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, domain.Invalid("storage.dsn", "required for postgres")
	}
	db, err := sql.Open(string(Postgres), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := OpenDB(db, Postgres)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenDB wraps an open database and applies pending migrations.
// The caller keeps ownership of db if an error is returned.
func OpenDB(db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect}

	sub, err := fs.Sub(migrations.FS, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("dialect %q: %w", dialect, domain.ErrUnsupportedType)
	}
	if err := s.migrate(sub); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path. It is empty for Postgres.
func (s *Store) Path() string {
	return s.path
}

// Dialect returns the database dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// CompanyStore returns a CompanyStore interface backed by this store.
func (s *Store) CompanyStore() driven.CompanyStore {
	return &companyStore{store: s}
}

// TenantStore returns a TenantStore interface backed by this store.
func (s *Store) TenantStore() driven.TenantStore {
	return &tenantStore{store: s}
}

// ClientStore returns a ClientStore interface backed by this store.
func (s *Store) ClientStore() driven.ClientStore {
	return &clientStore{store: s}
}

// PetStore returns a PetStore interface backed by this store.
func (s *Store) PetStore() driven.PetStore {
	return &petStore{store: s}
}

// StaffStore returns a StaffStore interface backed by this store.
func (s *Store) StaffStore() driven.StaffStore {
	return &staffStore{store: s}
}

// RoomStore returns a RoomStore interface backed by this store.
func (s *Store) RoomStore() driven.RoomStore {
	return &roomStore{store: s}
}

// ServiceStore returns a ServiceStore interface backed by this store.
func (s *Store) ServiceStore() driven.ServiceStore {
	return &serviceStore{store: s}
}

// AppointmentStore returns an AppointmentStore interface backed by this store.
func (s *Store) AppointmentStore() driven.AppointmentStore {
	return &appointmentStore{store: s}
}

// InventoryStore returns an InventoryStore interface backed by this store.
func (s *Store) InventoryStore() driven.InventoryStore {
	return &inventoryStore{store: s}
}

// ReceiptStore returns a ReceiptStore interface backed by this store.
func (s *Store) ReceiptStore() driven.ReceiptStore {
	return &receiptStore{store: s}
}

// RouteStore returns a RouteStore interface backed by this store.
func (s *Store) RouteStore() driven.RouteStore {
	return &routeStore{store: s}
}

// PostalCodeStore returns a PostalCodeStore interface backed by this store.
func (s *Store) PostalCodeStore() driven.PostalCodeStore {
	return &postalCodeStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &taskStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		err = s.withTx(context.Background(), func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return err
			}
			_, err := tx.Exec(s.dialect.rebind(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"),
				version, formatTime(time.Now()))
			return err
		})
		if err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("applied %s migration %s", s.dialect, name)
	}

	return nil
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, ignoreDone(tx.Rollback()))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
	return err
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, s *Store, scan func(scanner) (*T, error), query string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// queryOne scans a single row, mapping sql.ErrNoRows to domain.ErrNotFound.
func queryOne[T any](ctx context.Context, s *Store, scan func(scanner) (*T, error), query string, args ...any) (*T, error) {
	v, err := scan(s.queryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

// wrap prefixes err with what it was doing, passing nil through.
func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

// saveError maps constraint violations on insert or update.
// A missing parent row surfaces as a foreign key violation.
func saveError(what string, err error) error {
	if err == nil {
		return nil
	}
	switch classify(err) {
	case constraintUnique:
		return fmt.Errorf("saving %s: %w", what, domain.ErrAlreadyExists)
	case constraintForeignKey:
		return fmt.Errorf("saving %s: referenced row missing: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("saving %s: %w", what, err)
}

// deleteError maps a foreign key violation to domain.ErrInUse.
func deleteError(what string, err error) error {
	if err == nil {
		return nil
	}
	if classify(err) == constraintForeignKey {
		return fmt.Errorf("deleting %s: %w", what, domain.ErrInUse)
	}
	return fmt.Errorf("deleting %s: %w", what, err)
}
