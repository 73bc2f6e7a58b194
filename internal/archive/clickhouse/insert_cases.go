package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// InsertCases stores compliance case rows.
func (r *Repository) InsertCases(ctx context.Context, cases []model.Case) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_cases", err, start)
	}()

	if len(cases) == 0 {
		return nil
	}

	const query = `
INSERT INTO compliance_cases (
	case_id,
	tx_id,
	sender,
	recipient,
	amount,
	reason,
	investigated,
	disposition,
	timestamp
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare cases batch: %w", err)
	}

	for _, c := range cases {
		if err = batch.Append(
			string(c.ID),
			string(c.TxID),
			string(c.Sender),
			string(c.Recipient),
			uint64(c.Amount),
			string(c.Reason),
			c.Investigated,
			c.Disposition,
			c.Timestamp,
		); err != nil {
			return fmt.Errorf("append case: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert cases: %w", err)
	}
	return nil
}
