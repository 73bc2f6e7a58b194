package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// CaseByID returns one archived case, or nil if it has not been archived.
func (r *Repository) CaseByID(ctx context.Context, id model.CaseID) (*model.Case, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("case_by_id", err, start)
	}()

	const query = `
SELECT case_id, tx_id, sender, recipient, amount, reason, investigated, disposition, timestamp
FROM compliance_cases
WHERE case_id = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("query case by id: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate case by id: %w", err)
		}
		return nil, nil
	}

	c, scanErr := scanCase(rows)
	if scanErr != nil {
		err = scanErr
		return nil, err
	}
	return c, nil
}

// CasesByAddress returns archived cases naming the address as sender or
// recipient, in open order.
func (r *Repository) CasesByAddress(ctx context.Context, addr model.Address) ([]model.Case, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("cases_by_address", err, start)
	}()

	const query = `
SELECT case_id, tx_id, sender, recipient, amount, reason, investigated, disposition, timestamp
FROM compliance_cases
WHERE sender = ? OR recipient = ?
ORDER BY timestamp`

	rows, err := r.conn.Query(ctx, query, string(addr), string(addr))
	if err != nil {
		return nil, fmt.Errorf("query cases by address: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var result []model.Case
	for rows.Next() {
		c, scanErr := scanCase(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases by address: %w", err)
	}

	return result, nil
}

func scanCase(rows driver.Rows) (*model.Case, error) {
	var (
		c                               model.Case
		caseID, txID, sender, recipient string
		amount                          uint64
		reason                          string
	)
	if err := rows.Scan(
		&caseID,
		&txID,
		&sender,
		&recipient,
		&amount,
		&reason,
		&c.Investigated,
		&c.Disposition,
		&c.Timestamp,
	); err != nil {
		return nil, fmt.Errorf("scan case row: %w", err)
	}

	c.ID = model.CaseID(caseID)
	c.TxID = model.TxID(txID)
	c.Sender = model.Address(sender)
	c.Recipient = model.Address(recipient)
	c.Amount = model.Amount(amount)
	c.Reason = model.CaseReason(reason)
	return &c, nil
}
