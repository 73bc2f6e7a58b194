package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// TransactionsBySender returns the sender's archived transactions in commit
// order, paginated by offset/limit.
func (r *Repository) TransactionsBySender(ctx context.Context, sender model.Address, offset, limit uint64) ([]TransactionRow, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transactions_by_sender", err, start)
	}()

	const query = `
SELECT tx_id, kind, sender, sequence, input_count, output_count, input_value, output_value, burned, timestamp
FROM ledger_transactions
WHERE sender = ?
ORDER BY sequence
LIMIT ? OFFSET ?`

	rows, err := r.conn.Query(ctx, query, string(sender), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transactions by sender: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var result []TransactionRow
	for rows.Next() {
		row, scanErr := scanTransactionRow(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		result = append(result, *row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions by sender: %w", err)
	}

	return result, nil
}

func scanTransactionRow(rows driver.Rows) (*TransactionRow, error) {
	var (
		row                             TransactionRow
		txID, kind, sender              string
		inputValue, outputValue, burned uint64
	)
	if err := rows.Scan(
		&txID,
		&kind,
		&sender,
		&row.Sequence,
		&row.InputCount,
		&row.OutputCount,
		&inputValue,
		&outputValue,
		&burned,
		&row.Timestamp,
	); err != nil {
		return nil, fmt.Errorf("scan transaction row: %w", err)
	}

	row.TxID = model.TxID(txID)
	row.Kind = model.TransactionKind(kind)
	row.Sender = model.Address(sender)
	row.InputValue = model.Amount(inputValue)
	row.OutputValue = model.Amount(outputValue)
	row.Burned = model.Amount(burned)
	return &row, nil
}
