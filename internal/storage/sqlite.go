package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/wordify/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		mod_time_ns INTEGER NOT NULL,
		size INTEGER NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		scanned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		line INTEGER NOT NULL,
		candidate TEXT NOT NULL,
		words TEXT NOT NULL,
		valid BOOLEAN NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_source_id ON conversions(source_id, line);
	CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const insertConversion = `INSERT INTO conversions
	(id, source_id, source, line, candidate, words, valid, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectConversion = `SELECT id, source_id, source, line, candidate, words, valid, created_at
	FROM conversions`

// SaveConversions inserts convs in one transaction. Missing IDs are
// generated and CreatedAt is stamped on every record.
func (s *SQLiteStorage) SaveConversions(ctx context.Context, convs []*models.Conversion) error {
	if len(convs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertConversions(ctx, tx, convs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertConversions(ctx context.Context, tx *sql.Tx, convs []*models.Conversion) error {
	stmt, err := tx.PrepareContext(ctx, insertConversion)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range convs {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.CreatedAt = now
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.SourceID, c.Source, c.Line, c.Candidate, c.Words, c.Valid, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert conversion %s: %w", c.ID, err)
		}
	}
	return nil
}

// ListConversions returns conversions newest first with offset and limit.
func (s *SQLiteStorage) ListConversions(ctx context.Context, offset, limit int) ([]*models.Conversion, error) {
	rows, err := s.db.QueryContext(ctx,
		selectConversion+` ORDER BY rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanConversions(rows)
}

// ListConversionsBySource returns the conversions of one source in line order.
func (s *SQLiteStorage) ListConversionsBySource(ctx context.Context, sourceID string) ([]*models.Conversion, error) {
	rows, err := s.db.QueryContext(ctx,
		selectConversion+` WHERE source_id = ? ORDER BY line, rowid`,
		sourceID,
	)
	if err != nil {
		return nil, err
	}
	return scanConversions(rows)
}

func scanConversions(rows *sql.Rows) ([]*models.Conversion, error) {
	defer rows.Close()

	var convs []*models.Conversion
	for rows.Next() {
		var c models.Conversion
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Source, &c.Line, &c.Candidate, &c.Words, &c.Valid, &c.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, &c)
	}
	return convs, rows.Err()
}

// DeleteConversionsBySource removes every conversion recorded for a source.
func (s *SQLiteStorage) DeleteConversionsBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversions WHERE source_id = ?`, sourceID)
	return err
}

// GetSource returns a source by ID, or ErrNotFound.
func (s *SQLiteStorage) GetSource(ctx context.Context, id string) (*models.Source, error) {
	var src models.Source
	var modNanos int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, mod_time_ns, size, count, scanned_at FROM sources WHERE id = ?`, id,
	).Scan(&src.ID, &src.Path, &modNanos, &src.Size, &src.Count, &src.ScannedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	src.ModTime = time.Unix(0, modNanos).UTC()
	return &src, nil
}

// UpsertSource inserts src or replaces the stored record with the same ID.
func (s *SQLiteStorage) UpsertSource(ctx context.Context, src *models.Source) error {
	return upsertSource(ctx, s.db, src)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSource(ctx context.Context, db execer, src *models.Source) error {
	src.ScannedAt = time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO sources (id, path, mod_time_ns, size, count, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			mod_time_ns = excluded.mod_time_ns,
			size = excluded.size,
			count = excluded.count,
			scanned_at = excluded.scanned_at`,
		src.ID, src.Path, src.ModTime.UnixNano(), src.Size, src.Count, src.ScannedAt,
	)
	return err
}

// DeleteSource removes a source and its conversions.
func (s *SQLiteStorage) DeleteSource(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversions WHERE source_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceSource swaps the stored conversions of src for convs and records
// src, all in one transaction. src.Count is set to len(convs).
func (s *SQLiteStorage) ReplaceSource(ctx context.Context, src *models.Source, convs []*models.Conversion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversions WHERE source_id = ?`, src.ID); err != nil {
		return err
	}
	for _, c := range convs {
		c.SourceID = src.ID
	}
	if err := insertConversions(ctx, tx, convs); err != nil {
		return err
	}
	src.Count = len(convs)
	if err := upsertSource(ctx, tx, src); err != nil {
		return err
	}
	return tx.Commit()
}

// CountConversions returns the total number of stored conversions.
func (s *SQLiteStorage) CountConversions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversions`).Scan(&count)
	return count, err
}

// CountSources returns the number of scanned sources on record.
func (s *SQLiteStorage) CountSources(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
