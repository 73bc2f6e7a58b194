package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// MaxArchivedSequence returns the highest ledger sequence present in the
// archive, 0 when empty. Replay resumes from here after a restart.
func (r *Repository) MaxArchivedSequence(ctx context.Context) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_archived_sequence", err, start)
	}()

	const query = `
SELECT coalesce(max(sequence), toUInt64(0)) AS max_sequence
FROM ledger_transactions`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query max archived sequence: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var sequence uint64
	if !rows.Next() {
		err = fmt.Errorf("max archived sequence not found")
		return 0, err
	}

	if err = rows.Scan(&sequence); err != nil {
		return 0, fmt.Errorf("scan max archived sequence: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max archived sequence: %w", err)
	}

	return sequence, nil
}
