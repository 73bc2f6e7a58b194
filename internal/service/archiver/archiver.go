package archiver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/pkg/batcher"
)

const (
	recordFlushThreshold = 500
	caseFlushThreshold   = 100
	flushInterval        = 5 * time.Second
	flushRatePerSecond   = 10
)

// Feed receives commit and case notifications and batches them into the
// archive repository. It is safe to register on multiple publishers.
type Feed struct {
	repo    Repository
	logger  *zap.Logger
	metrics Metrics

	records *batcher.Batcher[model.Record]
	cases   *batcher.Batcher[model.Case]

	ctx context.Context
}

// NewFeed builds the archive feed with the provided dependencies.
func NewFeed(repo Repository, metrics Metrics, logger *zap.Logger) (*Feed, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	f := &Feed{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		ctx:     context.Background(),
	}

	f.records = batcher.New[model.Record](
		logger.Named("recordBatcher"),
		func(ctx context.Context, records []model.Record) error {
			started := time.Now()
			err := repo.InsertTransactions(ctx, records)
			metrics.ObserveFlush("ledger_transactions", err, len(records), started)
			if err != nil {
				return err
			}

			started = time.Now()
			err = repo.InsertOutputs(ctx, records)
			metrics.ObserveFlush("ledger_outputs", err, len(records), started)
			return err
		},
		recordFlushThreshold,
		flushInterval,
		flushRatePerSecond,
	)

	f.cases = batcher.New[model.Case](
		logger.Named("caseBatcher"),
		func(ctx context.Context, cases []model.Case) error {
			return repo.InsertCases(ctx, cases)
		},
		caseFlushThreshold,
		flushInterval,
		flushRatePerSecond,
		batcher.WithFlushObserver[model.Case](func(err error, size int, started time.Time) {
			metrics.ObserveFlush("compliance_cases", err, size, started)
		}),
	)

	return f, nil
}

// Start begins the background flush loops.
func (f *Feed) Start(ctx context.Context) {
	f.ctx = ctx
	f.records.Start(ctx)
	f.cases.Start(ctx)
}

// Stop flushes buffered rows and stops the flush loops.
func (f *Feed) Stop() {
	f.records.Stop()
	f.cases.Stop()
}

// OnCommit queues a committed transaction for archiving.
func (f *Feed) OnCommit(rec model.Record) {
	if err := f.records.Add(f.ctx, rec); err != nil {
		f.logger.Warn("transaction not queued for archive",
			zap.String("tx_id", string(rec.Tx.ID)),
			zap.Error(err))
	}
}

// OnCase queues an opened compliance case for archiving.
func (f *Feed) OnCase(c model.Case) {
	if err := f.cases.Add(f.ctx, c); err != nil {
		f.logger.Warn("case not queued for archive",
			zap.String("case_id", string(c.ID)),
			zap.Error(err))
	}
}
