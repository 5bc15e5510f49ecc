// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"log/slog"
	"time"
)

type statusDrift struct {
	id     string
	status string
}

// ReconcileStatuses writes the computed status of every unlocked election
// whose stored status has drifted from its time window. Safe to run
// concurrently with everything else; returns the number of rows changed.
func (s *Service) ReconcileStatuses(ctx context.Context) (int, error) {
	now := s.clock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, status
		FROM election
		WHERE status_locked = $1
	`, false)
	if err != nil {
		return 0, storeErr("query elections", err)
	}

	var drifted []statusDrift
	for rows.Next() {
		var id, status string
		var start, end time.Time
		if err := rows.Scan(&id, &start, &end, &status); err != nil {
			rows.Close()
			return 0, storeErr("scan election", err)
		}
		if want := ComputeStatus(now, start, end); want != status {
			drifted = append(drifted, statusDrift{id: id, status: want})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, storeErr("iterate elections", err)
	}

	changed := 0
	for _, d := range drifted {
		// Skip rows an admin locked since the read
		res, err := s.db.ExecContext(ctx, `
			UPDATE election SET status = $1, updated_at = $2
			WHERE id = $3 AND status_locked = $4
		`, d.status, now, d.id, false)
		if err != nil {
			return changed, storeErr("update election status", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			changed++
			slog.Info("election status reconciled", "election_id", d.id, "status", d.status)
		}
	}

	return changed, nil
}

// RunStatusSweep calls ReconcileStatuses every interval until ctx is done.
// Sweep failures are logged and retried on the next tick.
func (s *Service) RunStatusSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.ReconcileStatuses(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("status sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
