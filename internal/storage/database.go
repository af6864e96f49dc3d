package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			title TEXT,
			sections TEXT NOT NULL DEFAULT '[]',
			chunk_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'extracted',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			indexed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL,
			chunk_order INTEGER NOT NULL,
			section TEXT,
			page INTEGER NOT NULL DEFAULT 0,
			text TEXT NOT NULL,
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE,
			UNIQUE (paper_id, chunk_order)
		);`,
		`CREATE TABLE IF NOT EXISTS queries (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			normalized_question TEXT NOT NULL,
			paper_ids TEXT,
			answer TEXT NOT NULL,
			retrieval_time_ms INTEGER NOT NULL DEFAULT 0,
			gen_time_ms INTEGER NOT NULL DEFAULT 0,
			total_time_ms INTEGER NOT NULL DEFAULT 0,
			top_sources TEXT NOT NULL DEFAULT '[]',
			citations TEXT NOT NULL DEFAULT '[]',
			sources_used TEXT NOT NULL DEFAULT '[]',
			confidence REAL NOT NULL DEFAULT 0,
			rating INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS ingest_jobs (
			id TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'queued',
			attempts INTEGER NOT NULL DEFAULT 0,
			max_attempts INTEGER NOT NULL DEFAULT 3,
			next_run_at DATETIME NOT NULL,
			last_error TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_paper ON chunks(paper_id, chunk_order);`,
		`CREATE INDEX IF NOT EXISTS idx_queries_created ON queries(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_queries_normalized ON queries(normalized_question);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_due ON ingest_jobs(status, next_run_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
