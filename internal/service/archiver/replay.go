package archiver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/tierledger-backend/internal/clock"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/pkg/workerpool"
)

const (
	replayBatchSize   = 500
	replayChunkSize   = 100
	replayWorkerCount = 4
	replayBatchPause  = 250 * time.Millisecond
)

// Replay re-archives transactions committed after the highest sequence the
// repository has already seen. Call it before Start so live traffic and
// replayed traffic do not interleave.
func (f *Feed) Replay(ctx context.Context, src Ledger) error {
	after, err := f.repo.MaxArchivedSequence(ctx)
	if err != nil {
		return fmt.Errorf("max archived sequence: %w", err)
	}

	total := 0
	for {
		txs := src.TransactionsFromSequence(after, replayBatchSize)
		if len(txs) == 0 {
			break
		}

		records := make([]model.Record, 0, len(txs))
		for _, tx := range txs {
			records = append(records, recordOf(tx))
		}

		err := workerpool.Process(ctx, replayWorkerCount, chunk(records, replayChunkSize), f.archiveChunk)
		if err != nil {
			return fmt.Errorf("replay batch after sequence %d: %w", after, err)
		}

		f.metrics.ObserveReplayed(len(txs))
		total += len(txs)
		after = txs[len(txs)-1].Sequence

		if len(txs) < replayBatchSize {
			break
		}
		if err := clock.SleepWithContext(ctx, replayBatchPause); err != nil {
			return err
		}
	}

	if total > 0 {
		f.logger.Info("replayed unarchived transactions",
			zap.Int("count", total),
			zap.Uint64("last_sequence", after))
	}
	return nil
}

func (f *Feed) archiveChunk(ctx context.Context, records []model.Record) error {
	started := time.Now()
	err := f.repo.InsertTransactions(ctx, records)
	f.metrics.ObserveFlush("ledger_transactions", err, len(records), started)
	if err != nil {
		return err
	}

	started = time.Now()
	err = f.repo.InsertOutputs(ctx, records)
	f.metrics.ObserveFlush("ledger_outputs", err, len(records), started)
	return err
}

func recordOf(tx model.Transaction) model.Record {
	var outputTotal model.Amount
	for _, out := range tx.Outputs {
		outputTotal += out.Value
	}
	var inputTotal model.Amount
	if len(tx.Inputs) > 0 {
		inputTotal = outputTotal + tx.Burned
	}
	return model.Record{Tx: tx, InputValue: inputTotal, OutputValue: outputTotal}
}

func chunk(records []model.Record, size int) [][]model.Record {
	chunks := make([][]model.Record, 0, (len(records)+size-1)/size)
	for len(records) > size {
		chunks = append(chunks, records[:size])
		records = records[size:]
	}
	return append(chunks, records)
}
