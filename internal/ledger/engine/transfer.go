package engine

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

// Transfer consumes the caller's outputs and creates new ones for the named
// recipients. Any shortfall between input and output totals is burned and
// recorded on the committed transaction.
func (e *Engine) Transfer(caller model.Address, inputs []model.InputRef, payments []Payment) (model.Transaction, error) {
	started := time.Now()
	var err error
	defer func() {
		e.metrics.ObserveTransfer("transfer", err, len(inputs), len(payments), started)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	var tx model.Transaction
	tx, err = e.transfer(caller, inputs, payments)
	return tx, err
}

// transfer runs the full validation sequence, then commits. Callers hold the
// engine lock.
func (e *Engine) transfer(caller model.Address, inputs []model.InputRef, payments []Payment) (model.Transaction, error) {
	if len(inputs) == 0 {
		return model.Transaction{}, ledger.ErrEmptyInputs
	}
	if len(payments) == 0 {
		return model.Transaction{}, ledger.ErrEmptyOutputs
	}
	if !e.oracle.IsAuthorized(caller) {
		return model.Transaction{}, fmt.Errorf("transfer by %s: %w", caller, ledger.ErrUnauthorized)
	}

	now := e.now()
	var inputTotal model.Amount
	seen := make(map[model.InputRef]struct{}, len(inputs))
	for _, ref := range inputs {
		if _, dup := seen[ref]; dup {
			return model.Transaction{}, fmt.Errorf("input %s[%d] duplicated: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrAlreadySpent)
		}
		seen[ref] = struct{}{}

		out, resolveErr := e.store.ResolveInput(ref)
		if resolveErr != nil {
			return model.Transaction{}, resolveErr
		}
		if out.Spent {
			return model.Transaction{}, fmt.Errorf("input %s[%d]: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrAlreadySpent)
		}
		if out.Owner != caller {
			return model.Transaction{}, fmt.Errorf("input %s[%d] owned by %s: %w", ref.SourceTxID, ref.OutputIndex, out.Owner, ledger.ErrNotOwner)
		}
		if out.Locked(now) {
			return model.Transaction{}, fmt.Errorf("input %s[%d] locked until %s: %w", ref.SourceTxID, ref.OutputIndex, out.UnlockTime, ledger.ErrStillLocked)
		}
		inputTotal += out.Value
	}

	var outputTotal model.Amount
	for _, p := range payments {
		// The compliance gate: every recipient needs an active role.
		if !e.oracle.IsAuthorized(p.Recipient) {
			return model.Transaction{}, fmt.Errorf("recipient %s: %w", p.Recipient, ledger.ErrRecipientNotAuthorized)
		}
		outputTotal += p.Value
	}
	if outputTotal > inputTotal {
		return model.Transaction{}, fmt.Errorf("outputs %d over inputs %d: %w", outputTotal, inputTotal, ledger.ErrValueExceedsInput)
	}

	e.counter++
	txID := deriveTxID(caller, e.counter, e.store.Sequence()+1)
	outputs := make([]model.Output, len(payments))
	for i, p := range payments {
		outputs[i] = model.Output{
			ID:         deriveOutputID(txID, uint32(i)),
			Value:      p.Value,
			Owner:      p.Recipient,
			UnlockTime: p.UnlockTime,
		}
	}

	tx := model.Transaction{
		ID:        txID,
		Kind:      model.KindTransfer,
		Sender:    caller,
		Inputs:    inputs,
		Outputs:   outputs,
		Burned:    inputTotal - outputTotal,
		Timestamp: now,
	}

	committed, err := e.store.Commit(tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("commit transfer: %w", err)
	}

	e.logger.Debug("transferred",
		zap.String("tx", string(committed.ID)),
		zap.String("sender", string(caller)),
		zap.Int("inputs", len(inputs)),
		zap.Int("outputs", len(outputs)),
		zap.Uint64("burned", uint64(committed.Burned)),
	)
	e.emit(model.Record{Tx: committed, InputValue: inputTotal, OutputValue: outputTotal})

	return committed, nil
}
