// Package archiver streams committed ledger activity into ClickHouse.
package archiver

import (
	"context"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertTransactions(ctx context.Context, records []model.Record) error
		InsertOutputs(ctx context.Context, records []model.Record) error
		InsertCases(ctx context.Context, cases []model.Case) error
		MaxArchivedSequence(ctx context.Context) (uint64, error)
	}
	Metrics interface {
		ObserveFlush(table string, err error, size int, started time.Time)
		ObserveReplayed(count int)
	}
	Ledger interface {
		TransactionsFromSequence(after uint64, limit int) []model.Transaction
	}
)
