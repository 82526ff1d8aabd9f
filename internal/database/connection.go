package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/example/leitnerbot/internal/config"
)

// Driver names as registered with database/sql
const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Connect opens the database selected by the configuration and creates the schema
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DBType {
	case config.DBTypePostgres:
		return Open(driverPostgres, cfg.DatabaseURL)
	default:
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return OpenSQLite(cfg.DBPath)
	}
}

// OpenSQLite opens (and creates if missing) the SQLite database at path
func OpenSQLite(path string) (*sqlx.DB, error) {
	return Open(driverSQLite, path+"?_foreign_keys=on&_busy_timeout=5000")
}

// Open connects with the given driver and initializes the schema
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == driverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	log.WithField("driver", driver).Debug("Database ready")
	return db, nil
}

var schema = []struct {
	name string
	sql  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			notification_hour INTEGER NOT NULL DEFAULT 9,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`},
	{"cards", `
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			front TEXT NOT NULL,
			back TEXT NOT NULL,
			example TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(user_id, front)
		)`},
	{"schedule_states", `
		CREATE TABLE IF NOT EXISTS schedule_states (
			card_id TEXT PRIMARY KEY REFERENCES cards(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			box_level INTEGER NOT NULL DEFAULT 1,
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			interval_days INTEGER NOT NULL DEFAULT 1,
			repetitions INTEGER NOT NULL DEFAULT 0,
			next_review_at TIMESTAMP NOT NULL,
			last_reviewed_at TIMESTAMP NULL,
			total_reviews INTEGER NOT NULL DEFAULT 0,
			correct_reviews INTEGER NOT NULL DEFAULT 0,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`},
	{"schedule_states_due_idx", `
		CREATE INDEX IF NOT EXISTS schedule_states_due_idx
			ON schedule_states (user_id, next_review_at)`},
	{"study_sessions", `
		CREATE TABLE IF NOT EXISTS study_sessions (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			session_type TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP NULL,
			cards_attempted INTEGER NOT NULL DEFAULT 0,
			cards_correct INTEGER NOT NULL DEFAULT 0,
			total_time_spent INTEGER NOT NULL DEFAULT 0
		)`},
	{"study_answers", `
		CREATE TABLE IF NOT EXISTS study_answers (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES study_sessions(id) ON DELETE CASCADE,
			card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			user_answer TEXT NOT NULL DEFAULT '',
			is_correct BOOLEAN NOT NULL,
			time_spent INTEGER NOT NULL DEFAULT 0,
			self_rating INTEGER NULL,
			answered_at TIMESTAMP NOT NULL
		)`},
}

// initializeSchema creates necessary tables if they don't exist.
// The DDL is kept to the subset shared by SQLite and PostgreSQL.
func initializeSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}
