package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores the catalog and roster. The rotation ledger never touches disk.
type Repository struct {
	db *sql.DB
}

// Open opens the database at path and applies migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS work_items (
			name TEXT PRIMARY KEY,
			intensity INTEGER NOT NULL CHECK (intensity > 0),
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS workers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			shift TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS availability (
			worker_id INTEGER NOT NULL,
			day INTEGER NOT NULL CHECK (day BETWEEN 0 AND 6),
			available INTEGER NOT NULL,
			PRIMARY KEY(worker_id, day),
			FOREIGN KEY(worker_id) REFERENCES workers(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_work_items_position ON work_items(position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// ListWorkItems returns the catalog in declaration order.
func (r *Repository) ListWorkItems(ctx context.Context) ([]domain.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, intensity FROM work_items ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.WorkItem, 0)
	for rows.Next() {
		var item domain.WorkItem
		if err := rows.Scan(&item.Name, &item.Intensity); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListWorkers returns all workers ordered by id.
func (r *Repository) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, shift, active FROM workers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.Worker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, worker)
	}
	return out, rows.Err()
}

// GetWorker returns one worker by id.
func (r *Repository) GetWorker(ctx context.Context, id int) (domain.Worker, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, shift, active FROM workers WHERE id = ?`, id)
	worker, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Worker{}, app.ErrNotFound
	}
	return worker, err
}

// ListAvailability returns availability ordered by worker then day.
func (r *Repository) ListAvailability(ctx context.Context) ([]domain.Availability, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT worker_id, day, available FROM availability ORDER BY worker_id ASC, day ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.Availability, 0)
	for rows.Next() {
		var (
			entry     domain.Availability
			day       int
			available int
		)
		if err := rows.Scan(&entry.WorkerID, &day, &available); err != nil {
			return nil, err
		}
		entry.Day = domain.Day(day)
		entry.Available = available != 0
		out = append(out, entry)
	}
	return out, rows.Err()
}

// SetWorkerActive toggles whether a worker is eligible for assignment.
func (r *Repository) SetWorkerActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workers SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// ReplaceDataset swaps the stored catalog and roster in one transaction.
func (r *Repository) ReplaceDataset(ctx context.Context, dataset domain.Dataset) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM availability`, `DELETE FROM workers`, `DELETE FROM work_items`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for position, item := range dataset.Items {
		if _, err = tx.ExecContext(ctx, `INSERT INTO work_items(name, intensity, position) VALUES (?, ?, ?)`, item.Name, item.Intensity, position); err != nil {
			return fmt.Errorf("insert work item %q: %w", item.Name, err)
		}
	}
	for _, worker := range dataset.Workers {
		if _, err = tx.ExecContext(ctx, `INSERT INTO workers(id, name, shift, active) VALUES (?, ?, ?, ?)`, worker.ID, worker.Name, worker.Shift, boolToInt(worker.Active)); err != nil {
			return fmt.Errorf("insert worker %q: %w", worker.Name, err)
		}
	}
	for _, entry := range dataset.Availability {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO availability(worker_id, day, available) VALUES (?, ?, ?)
			ON CONFLICT(worker_id, day) DO UPDATE SET available = excluded.available
		`, entry.WorkerID, int(entry.Day), boolToInt(entry.Available)); err != nil {
			return fmt.Errorf("insert availability for worker %d: %w", entry.WorkerID, err)
		}
	}

	err = tx.Commit()
	return err
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanWorker handles scan worker.
func scanWorker(s scanner) (domain.Worker, error) {
	var (
		worker domain.Worker
		active int
	)
	if err := s.Scan(&worker.ID, &worker.Name, &worker.Shift, &active); err != nil {
		return domain.Worker{}, err
	}
	worker.Active = active != 0
	return worker, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
