package pubtrans

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQL Server driver for the Pubtrans DOI database.
	_ "github.com/microsoft/go-mssqldb"
)

// Cursor is a forward-only, read-once view over a query result. *sql.Rows
// satisfies it; tests provide in-memory implementations.
type Cursor interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Source executes SQL text against the Pubtrans DOI database and returns a
// cursor over the result. The connection behind a Source is shared by all
// queries of a cycle and is not safe for concurrent statement execution, so
// callers run queries sequentially.
type Source interface {
	Query(ctx context.Context, sqlText string) (Cursor, error)
}

// SQLSource is the database/sql-backed Source for SQL Server.
type SQLSource struct {
	db *sql.DB
}

// OpenSource opens the Pubtrans connection pool. The pool is restricted to a
// single connection to match the one-statement-at-a-time extraction model;
// database/sql re-dials transparently, which gives every cycle a fresh
// connection attempt after a source failure.
func OpenSource(connString string) (*SQLSource, error) {
	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return nil, fmt.Errorf("opening pubtrans connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &SQLSource{db: db}, nil
}

// Query runs the given SQL text and returns a forward-only cursor.
func (s *SQLSource) Query(ctx context.Context, sqlText string) (Cursor, error) {
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping verifies connectivity to the source.
func (s *SQLSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
