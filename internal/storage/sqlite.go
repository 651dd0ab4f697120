package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"sherpa/internal/core/model"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	position    INTEGER PRIMARY KEY,
	id          INTEGER NOT NULL,
	description TEXT    NOT NULL,
	by_date     TEXT    NOT NULL DEFAULT '',
	do_on_date  TEXT    NOT NULL DEFAULT '',
	done        INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS study_sessions (
	id         TEXT    PRIMARY KEY,
	mode       TEXT    NOT NULL,
	started_at TEXT    NOT NULL,
	ended_at   TEXT    NOT NULL,
	seconds    INTEGER NOT NULL,
	outcome    TEXT    NOT NULL
);`

// SQLiteStore keeps tasks and session history in a SQLite database.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens or creates the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the stored tasks in list order.
func (store *SQLiteStore) Load() (*model.TaskList, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	rows, err := store.db.Query(`SELECT id, description, by_date, do_on_date, done FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			task             model.Task
			byDate, doOnDate string
		)
		if err := rows.Scan(&task.ID, &task.Description, &byDate, &doOnDate, &task.Done); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if task.ByDate, err = parseDate(byDate); err != nil {
			return nil, fmt.Errorf("task %d by date: %w", task.ID, err)
		}
		if task.DoOnDate, err = parseDate(doOnDate); err != nil {
			return nil, fmt.Errorf("task %d do-on date: %w", task.ID, err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return model.NewTaskList(tasks), nil
}

// WriteSaveData replaces the stored tasks in one transaction.
func (store *SQLiteStore) WriteSaveData(tasks *model.TaskList) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	tx, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	insert, err := tx.Prepare(`INSERT INTO tasks (position, id, description, by_date, do_on_date, done) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for position, task := range tasks.Tasks() {
		_, err := insert.Exec(position+1, task.ID, task.Description, formatDate(task.ByDate), formatDate(task.DoOnDate), task.Done)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", task.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// RecordSession appends a finished study session.
func (store *SQLiteStore) RecordSession(record model.SessionRecord) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, err := store.db.Exec(`INSERT INTO study_sessions (id, mode, started_at, ended_at, seconds, outcome) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Mode,
		record.StartedAt.UTC().Format(time.RFC3339Nano), record.EndedAt.UTC().Format(time.RFC3339Nano),
		record.Seconds, string(record.Outcome))
	if err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

// Sessions returns the recorded study sessions, oldest first.
func (store *SQLiteStore) Sessions() ([]model.SessionRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	rows, err := store.db.Query(`SELECT id, mode, started_at, ended_at, seconds, outcome FROM study_sessions ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	defer rows.Close()

	var records []model.SessionRecord
	for rows.Next() {
		var (
			record           model.SessionRecord
			startedAt, ended string
			outcome          string
		)
		if err := rows.Scan(&record.ID, &record.Mode, &startedAt, &ended, &record.Seconds, &outcome); err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		if record.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("study session %s start: %w", record.ID, err)
		}
		if record.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("study session %s end: %w", record.ID, err)
		}
		record.Outcome = model.SessionOutcome(outcome)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(model.DateLayout)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(model.DateLayout, value, time.Local)
}
