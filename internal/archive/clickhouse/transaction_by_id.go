package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// TransactionByID returns the archived row for one transaction, or nil if it
// has not been archived.
func (r *Repository) TransactionByID(ctx context.Context, id model.TxID) (*TransactionRow, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_by_id", err, start)
	}()

	const query = `
SELECT tx_id, kind, sender, sequence, input_count, output_count, input_value, output_value, burned, timestamp
FROM ledger_transactions
WHERE tx_id = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("query transaction by id: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate transaction by id: %w", err)
		}
		return nil, nil
	}

	row, scanErr := scanTransactionRow(rows)
	if scanErr != nil {
		err = scanErr
		return nil, err
	}
	return row, nil
}
