package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// NewPostgresConnection opens and verifies a Postgres connection pool
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Soft-delete predicates shared by every repository query that touches
// groups or expenses. Deleted rows must be invisible to all reads, so the
// filter lives here instead of being repeated ad hoc per call site.
const (
	GroupNotDeleted   = "g.deleted_at IS NULL"
	ExpenseNotDeleted = "e.deleted_at IS NULL"
)
