// pkg/store/ratewindows.go
package store

import (
	"context"
	"fmt"
	"time"
)

// UpsertRateWindow creates or bumps the fixed-window counter row for
// (identifier, endpoint, windowStart) and returns the count after the bump.
// The upsert is a single statement so concurrent requests never lose an
// increment.
func (s *Store) UpsertRateWindow(ctx context.Context, identifier, endpoint string, windowStart time.Time) (uint32, error) {
	query := `
		INSERT INTO rate_windows (identifier, endpoint, window_start, request_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (identifier, endpoint, window_start)
		DO UPDATE SET request_count = request_count + 1
		RETURNING request_count
	`

	var count uint32
	err := s.db.QueryRowContext(ctx, query,
		identifier, endpoint, windowStart.UTC().Format(timeLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert rate window: %w", err)
	}
	return count, nil
}

// GetRateWindowCount reads the current count of a window row, 0 when the
// row does not exist yet.
func (s *Store) GetRateWindowCount(ctx context.Context, identifier, endpoint string, windowStart time.Time) (uint32, error) {
	var count uint32
	err := s.db.QueryRowContext(ctx,
		`SELECT request_count FROM rate_windows WHERE identifier = ? AND endpoint = ? AND window_start = ?`,
		identifier, endpoint, windowStart.UTC().Format(timeLayout)).Scan(&count)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rate window: %w", err)
	}
	return count, nil
}

// DeleteRateWindowsBefore removes expired window rows. Runs from the
// background sweeper only, never on the request path.
func (s *Store) DeleteRateWindowsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM rate_windows WHERE window_start < ?`,
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep rate windows: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read sweep result: %w", err)
	}
	return deleted, nil
}
