package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"taskline/internal/task"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// SQLite stores the collection in a single table ordered by position.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	return openSQLite(path)
}

// OpenSQLiteInMemory opens a private in-memory database.
func OpenSQLiteInMemory() (*SQLite, error) {
	return openSQLite(":memory:")
}

func openSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; also keeps an in-memory database on a single connection.
	db.SetMaxOpenConns(1)

	repo := &SQLite{db: db, now: time.Now}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database.
func (r *SQLite) Close() error {
	return r.db.Close()
}

func (r *SQLite) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			priority TEXT NOT NULL DEFAULT '',
			due_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Save replaces every row in one transaction.
func (r *SQLite) Save(ctx context.Context, tasks []task.Task) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks(id, position, text, completed, priority, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err = stmt.ExecContext(ctx,
			t.ID,
			i,
			t.Text,
			boolToInt(t.Completed),
			string(t.Priority),
			nullableTime(t.DueDate),
			formatTime(t.CreatedAt),
			formatTime(t.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO meta(key, value) VALUES('saved_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, formatTime(r.now())); err != nil {
		return fmt.Errorf("mark saved: %w", err)
	}

	err = tx.Commit()
	return err
}

// Load returns the tasks in position order, or task.ErrNoSavedState when
// nothing was ever saved.
func (r *SQLite) Load(ctx context.Context) ([]task.Task, error) {
	var savedAt string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNoSavedState
	}
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, completed, priority, due_at, created_at, updated_at
		FROM tasks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			rec       taskRecord
			completed int
			dueRaw    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &completed, &rec.Priority, &dueRaw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		rec.Completed = completed != 0
		if dueRaw.Valid {
			rec.DueDate = &dueRaw.String
		}
		t, _ := fromRecord(rec)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return task.Normalize(tasks, r.now(), uuid.NewString), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
