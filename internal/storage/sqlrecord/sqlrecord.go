// Package sqlrecord holds the record queries shared by the SQL backends.
package sqlrecord

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/nixie/internal/migration"
	"github.com/julianstephens/nixie/internal/storage"
)

const slot = 0

// timeLayout has a fixed width so TEXT timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Read returns the current record or storage.ErrNoRecord.
func Read(db *sql.DB, dialect migration.Dialect) ([]byte, error) {
	var data []byte
	err := db.QueryRow(dialect.Bind("SELECT record FROM config_record WHERE slot = ?"), slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config record: %w", err)
	}
	return data, nil
}

// Write replaces the current record and appends it to the history under a
// fresh revision id, in one transaction.
func Write(db *sql.DB, dialect migration.Dialect, data []byte, now time.Time) (string, error) {
	revision := uuid.NewString()
	savedAt := now.UTC().Format(timeLayout)

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(dialect.Bind(`
		INSERT INTO config_record (slot, revision, record, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			revision = excluded.revision,
			record = excluded.record,
			saved_at = excluded.saved_at
	`), slot, revision, data, savedAt)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to write config record: %w", err)
	}

	_, err = tx.Exec(dialect.Bind("INSERT INTO record_history (revision, record, saved_at) VALUES (?, ?, ?)"),
		revision, data, savedAt)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to append record history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit config record: %w", err)
	}
	return revision, nil
}

// History lists the most recent revisions, newest first.
func History(db *sql.DB, dialect migration.Dialect, limit int) ([]storage.Revision, error) {
	rows, err := db.Query(dialect.Bind(
		"SELECT revision, record, saved_at FROM record_history ORDER BY saved_at DESC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query record history: %w", err)
	}
	defer rows.Close()

	var revisions []storage.Revision
	for rows.Next() {
		var (
			rev     storage.Revision
			savedAt interface{}
		)
		if err := rows.Scan(&rev.ID, &rev.Record, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record history: %w", err)
		}
		if rev.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

func parseTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(timeLayout, t)
	case []byte:
		return time.Parse(timeLayout, string(t))
	}
	return time.Time{}, fmt.Errorf("unexpected saved_at type %T", v)
}
