package engine

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

// Mint creates new supply for an authorized recipient. The caller must hold
// the mint capability. A mint is an input-less transaction flowing through
// the common commit path, so its ids follow the same derivation rule as
// transfers.
func (e *Engine) Mint(caller, recipient model.Address, amount model.Amount) (model.Transaction, error) {
	started := time.Now()
	var err error
	defer func() {
		e.metrics.ObserveMint(err, started)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.oracle.HasCapability(caller, auth.CapabilityMint) {
		err = fmt.Errorf("mint by %s: %w", caller, ledger.ErrUnauthorized)
		return model.Transaction{}, err
	}
	// Phrased as a subtraction so a huge amount cannot wrap the sum.
	if amount > e.maxSupply-e.store.TotalSupply() {
		err = fmt.Errorf("mint %d over cap %d: %w", amount, e.maxSupply, ledger.ErrSupplyExceeded)
		return model.Transaction{}, err
	}
	if !e.oracle.IsAuthorized(recipient) {
		err = fmt.Errorf("mint to %s: %w", recipient, ledger.ErrRecipientNotAuthorized)
		return model.Transaction{}, err
	}

	e.counter++
	txID := deriveTxID(caller, e.counter, e.store.Sequence()+1)
	tx := model.Transaction{
		ID:     txID,
		Kind:   model.KindMint,
		Sender: caller,
		Outputs: []model.Output{
			{ID: deriveOutputID(txID, 0), Value: amount, Owner: recipient},
		},
		Timestamp: e.now(),
	}

	committed, err := e.store.Commit(tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("commit mint: %w", err)
	}

	e.logger.Info("minted",
		zap.String("tx", string(committed.ID)),
		zap.String("recipient", string(recipient)),
		zap.Uint64("amount", uint64(amount)),
	)
	e.emit(model.Record{Tx: committed, OutputValue: amount})

	return committed, nil
}
