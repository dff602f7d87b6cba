package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps tables as individually addressed cells in SQLite.
// It implements the Store interface.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time check that SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and runs migrations
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping implements Store. It only reads.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	var one int
	return s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

// SchemaVersion returns the applied migration version
func (s *SQLiteStore) SchemaVersion() (int64, error) {
	return schemaVersion(s.db)
}

// Append implements Store
func (s *SQLiteStore) Append(ctx context.Context, table string, row []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_num), 0) + 1 FROM cells WHERE sheet = ? AND value != ''
	`, table).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to find next row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO cells (sheet, row_num, col_num, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, value := range row {
		if _, err := stmt.ExecContext(ctx, table, next, i+1, value); err != nil {
			return fmt.Errorf("failed to write cell %s%d: %w", ColumnName(i+1), next, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}

	s.logger.Debug("appended row", "table", table, "row", next, "cells", len(row))
	return nil
}

// Read implements Store
func (s *SQLiteStore) Read(ctx context.Context, table, rng string) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}

	endRow := r.EndRow
	if endRow == math.MaxInt {
		endRow = math.MaxInt32
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_num, col_num, value FROM cells
		WHERE sheet = ? AND row_num BETWEEN ? AND ? AND col_num BETWEEN ? AND ?
		ORDER BY row_num, col_num
	`, table, r.StartRow, endRow, r.StartCol, r.EndCol)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s!%s: %w", table, rng, err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]string
	for rows.Next() {
		var rowNum, colNum int
		var value string
		if err := rows.Scan(&rowNum, &colNum, &value); err != nil {
			return nil, err
		}

		idx := rowNum - r.StartRow
		for len(out) <= idx {
			out = append(out, []string{})
		}
		colIdx := colNum - r.StartCol
		for len(out[idx]) <= colIdx {
			out[idx] = append(out[idx], "")
		}
		out[idx][colIdx] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i] = trimRow(out[i])
	}
	return trimRows(out), nil
}

// WriteCell implements Store
func (s *SQLiteStore) WriteCell(ctx context.Context, table, ref, value string) error {
	c, err := ParseCell(ref)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cells (sheet, row_num, col_num, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(sheet, row_num, col_num) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, table, c.Row, c.Col, value)
	if err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", table, ref, err)
	}

	s.logger.Debug("wrote cell", "table", table, "cell", ref)
	return nil
}
