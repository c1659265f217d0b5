package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// MaxHistory is the number of distinct BINs kept in the history list.
const MaxHistory = 20

const (
	lastBINKey     = "last_bin"
	recentCacheKey = "recent_bins"
)

// LastBIN returns the most recently used BIN, or "" when none was saved.
func (s *SQLiteStorage) LastBIN(ctx context.Context) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	var bin string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, lastBINKey).Scan(&bin)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last BIN: %w", err)
	}
	return bin, nil
}

// RememberBIN records bin as the last used BIN and moves it to the front of
// the history list, which is capped at MaxHistory distinct entries.
func (s *SQLiteStorage) RememberBIN(ctx context.Context, bin string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBIN(bin); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, lastBINKey, bin); err != nil {
		return fmt.Errorf("failed to save last BIN: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM bin_history`).Scan(&seq); err != nil {
		return fmt.Errorf("failed to get next history sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bin_history (bin, used_at, seq) VALUES (?, CURRENT_TIMESTAMP, ?)
		ON CONFLICT(bin) DO UPDATE SET used_at = excluded.used_at, seq = excluded.seq
	`, bin, seq); err != nil {
		return fmt.Errorf("failed to save BIN history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM bin_history
		WHERE bin NOT IN (SELECT bin FROM bin_history ORDER BY seq DESC LIMIT ?)
	`, MaxHistory); err != nil {
		return fmt.Errorf("failed to trim BIN history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit BIN history: %w", err)
	}

	s.recent.Delete(recentCacheKey)
	return nil
}

// RecentBINs returns up to limit BINs, most recent first. A limit outside
// 1..MaxHistory returns the whole list.
func (s *SQLiteStorage) RecentBINs(ctx context.Context, limit int) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	all, err := s.recentBINs(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]string, limit)
	copy(out, all[:limit])
	return out, nil
}

func (s *SQLiteStorage) recentBINs(ctx context.Context) ([]string, error) {
	if cached, ok := s.recent.Get(recentCacheKey); ok {
		if bins, ok := cached.([]string); ok {
			return bins, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT bin FROM bin_history ORDER BY seq DESC LIMIT ?`, MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to query BIN history: %w", err)
	}
	defer rows.Close()

	bins := make([]string, 0, MaxHistory)
	for rows.Next() {
		var bin string
		if err := rows.Scan(&bin); err != nil {
			return nil, fmt.Errorf("failed to scan BIN history: %w", err)
		}
		bins = append(bins, bin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate BIN history: %w", err)
	}

	s.recent.SetDefault(recentCacheKey, bins)
	return bins, nil
}

// ClearHistory forgets the last BIN and the whole history list.
func (s *SQLiteStorage) ClearHistory(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, lastBINKey); err != nil {
		return fmt.Errorf("failed to clear last BIN: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bin_history`); err != nil {
		return fmt.Errorf("failed to clear BIN history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history reset: %w", err)
	}

	s.recent.Flush()
	return nil
}
