package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// InsertOutputs stores the outputs created by committed transactions.
func (r *Repository) InsertOutputs(ctx context.Context, records []model.Record) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_outputs", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_outputs (
	output_id,
	tx_id,
	index,
	owner,
	value,
	unlock_time,
	timestamp
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare outputs batch: %w", err)
	}

	for _, rec := range records {
		for i, out := range rec.Tx.Outputs {
			if err = batch.Append(
				string(out.ID),
				string(rec.Tx.ID),
				uint32(i),
				string(out.Owner),
				uint64(out.Value),
				out.UnlockTime,
				rec.Tx.Timestamp,
			); err != nil {
				return fmt.Errorf("append output: %w", err)
			}
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert outputs: %w", err)
	}
	return nil
}
