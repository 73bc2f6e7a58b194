package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/pkg/safe"
)

// InsertTransactions stores committed-transaction rows.
func (r *Repository) InsertTransactions(ctx context.Context, records []model.Record) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_transactions (
	tx_id,
	kind,
	sender,
	sequence,
	input_count,
	output_count,
	input_value,
	output_value,
	burned,
	timestamp
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, rec := range records {
		inputCount, convErr := safe.Uint32(len(rec.Tx.Inputs))
		if convErr != nil {
			err = fmt.Errorf("input count for %s: %w", rec.Tx.ID, convErr)
			return err
		}
		outputCount, convErr := safe.Uint32(len(rec.Tx.Outputs))
		if convErr != nil {
			err = fmt.Errorf("output count for %s: %w", rec.Tx.ID, convErr)
			return err
		}

		if err = batch.Append(
			string(rec.Tx.ID),
			string(rec.Tx.Kind),
			string(rec.Tx.Sender),
			rec.Tx.Sequence,
			inputCount,
			outputCount,
			uint64(rec.InputValue),
			uint64(rec.OutputValue),
			uint64(rec.Tx.Burned),
			rec.Tx.Timestamp,
		); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
