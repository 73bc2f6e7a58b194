// Package clickhouse implements the append-only reporting store consumed by
// the audit surface. It never feeds back into ledger state.
package clickhouse

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// TransactionRow is the archived view of a committed transaction.
type TransactionRow struct {
	TxID        model.TxID
	Kind        model.TransactionKind
	Sender      model.Address
	Sequence    uint64
	InputCount  uint32
	OutputCount uint32
	InputValue  model.Amount
	OutputValue model.Amount
	Burned      model.Amount
	Timestamp   time.Time
}

type Repository struct {
	conn    clickhouse.Conn
	metrics Metrics
}

func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, metrics: metrics}, nil
}
