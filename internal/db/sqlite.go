package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable records applied schema versions.
const migrationsTable = "gophnotes_schema_versions"

// SQLite holds separate writer and reader pools over one database.
// The writer is limited to a single connection to avoid "database is locked".
type SQLite struct {
	Writer *sql.DB
	Reader *sql.DB
}

// InitSQLite opens the database file at path in WAL mode and applies the
// embedded migrations.
func InitSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
	return OpenSQLite(ctx, dsn)
}

// OpenSQLite opens writer and reader pools for dsn and migrates the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	s := &SQLite{Writer: writer, Reader: reader}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// PingContext checks the writer connection.
func (s *SQLite) PingContext(ctx context.Context) error {
	return s.Writer.PingContext(ctx)
}

// Close closes both pools and returns the first error encountered.
func (s *SQLite) Close() error {
	var firstErr error
	if err := s.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := s.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}
	return firstErr
}

// Migrate brings the schema to the newest embedded version. Running it
// on an up-to-date database is a no-op.
func (s *SQLite) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	target, err := migratesqlite.WithInstance(s.Writer, &migratesqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("prepare sqlite for migrations: %w", err)
	}
	schema, err := migrate.NewWithInstance("embedded", src, "sqlite", target)
	if err != nil {
		return fmt.Errorf("prepare migrations: %w", err)
	}

	// Closing schema would close the writer pool; it is owned by s.
	switch err := schema.Up(); {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	default:
		return fmt.Errorf("migrate notes schema: %w", err)
	}
}
