package database

import (
	"database/sql"
	"fmt"
	"time"

	"pwcards/internal/cards"
	"pwcards/internal/database/migrations"
	"pwcards/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements cards.History using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

var _ cards.History = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase opens the database at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite database connection.
// An in-memory database is limited to one connection, since every new
// connection to ":memory:" would see a separate empty database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is at the latest version.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// RecordOperation inserts a finished operation and returns its row id.
func (s *SQLiteDatabase) RecordOperation(op *model.Operation) (int64, error) {
	var finished sql.NullTime
	if op.FinishedAt != nil {
		finished = sql.NullTime{Time: op.FinishedAt.UTC(), Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO operations (operation, entry_id, status, message, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		op.Operation, op.EntryID, op.Status, op.Message, op.StartedAt.UTC(), finished,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting operation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	op.ID = id
	return id, nil
}

// ListOperations returns at most limit operations, newest first.
func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.db.Query(
		`SELECT id, operation, entry_id, status, message, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return scanOperations(rows)
}

// ListOperationsForEntry returns every operation that touched entryID, newest first.
func (s *SQLiteDatabase) ListOperationsForEntry(entryID string) ([]*model.Operation, error) {
	rows, err := s.db.Query(
		`SELECT id, operation, entry_id, status, message, started_at, finished_at
		 FROM operations WHERE entry_id = ? ORDER BY id DESC`, entryID)
	if err != nil {
		return nil, fmt.Errorf("listing operations for entry: %w", err)
	}
	return scanOperations(rows)
}

func scanOperations(rows *sql.Rows) ([]*model.Operation, error) {
	defer rows.Close()

	ops := []*model.Operation{}
	for rows.Next() {
		var (
			op       model.Operation
			started  time.Time
			finished sql.NullTime
		)
		if err := rows.Scan(&op.ID, &op.Operation, &op.EntryID, &op.Status, &op.Message, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		op.StartedAt = started
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
