package engine

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// AccountToUTXO carves an explicit output of the requested amount out of the
// caller's balance, selecting unspent unlocked outputs in creation order and
// returning change to the caller.
func (e *Engine) AccountToUTXO(caller model.Address, amount model.Amount) (model.Transaction, error) {
	started := time.Now()
	var err error
	var tx model.Transaction
	defer func() {
		e.metrics.ObserveTransfer("account_to_utxo", err, len(tx.Inputs), len(tx.Outputs), started)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var selected []model.InputRef
	var total model.Amount
	for _, out := range e.store.UTXOsOf(caller) {
		if out.Locked(now) {
			continue
		}
		ref, ok := e.store.OutputRef(out.ID)
		if !ok {
			err = fmt.Errorf("output %s: %w", out.ID, ledger.ErrUnknownSource)
			return model.Transaction{}, err
		}
		selected = append(selected, ref)
		total += out.Value
		if total >= amount {
			break
		}
	}
	if total < amount {
		err = fmt.Errorf("balance %d short of %d: %w", total, amount, ledger.ErrValueExceedsInput)
		return model.Transaction{}, err
	}

	payments := []Payment{{Recipient: caller, Value: amount}}
	if change := total - amount; change > 0 {
		payments = append(payments, Payment{Recipient: caller, Value: change})
	}

	tx, err = e.transfer(caller, selected, payments)
	return tx, err
}

// UTXOToAccount consolidates the named outputs back into the caller's
// balance: one output of the requested amount plus change, both to the
// caller. The amount must not exceed what the named outputs hold.
func (e *Engine) UTXOToAccount(caller model.Address, ids []model.OutputID, amount model.Amount) (model.Transaction, error) {
	started := time.Now()
	var err error
	var tx model.Transaction
	defer func() {
		e.metrics.ObserveTransfer("utxo_to_account", err, len(ids), len(tx.Outputs), started)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	refs := make([]model.InputRef, 0, len(ids))
	var total model.Amount
	for _, id := range ids {
		ref, ok := e.store.OutputRef(id)
		if !ok {
			err = fmt.Errorf("output %s: %w", id, ledger.ErrUnknownSource)
			return model.Transaction{}, err
		}
		out, _ := e.store.GetOutput(id)
		refs = append(refs, ref)
		total += out.Value
	}
	if amount > total {
		err = fmt.Errorf("amount %d over selected %d: %w", amount, total, ledger.ErrValueExceedsInput)
		return model.Transaction{}, err
	}

	payments := []Payment{{Recipient: caller, Value: amount}}
	if change := total - amount; change > 0 {
		payments = append(payments, Payment{Recipient: caller, Value: change})
	}

	tx, err = e.transfer(caller, refs, payments)
	return tx, err
}
