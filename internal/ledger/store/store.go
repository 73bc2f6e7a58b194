// Package store owns the authoritative UTXO state. Transactions are the
// single home of Output data; the output and owner indices are lookup aliases
// kept in step with every commit.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// location points at an output inside its owning transaction.
type location struct {
	txID  model.TxID
	index uint32
}

// Store is the ledger state: transaction log, output alias index, owner
// index and supply counters. All methods are safe for concurrent use; writes
// are serialized and each commit is all-or-nothing.
type Store struct {
	mu           sync.RWMutex
	transactions map[model.TxID]*model.Transaction
	order        []model.TxID
	outputs      map[model.OutputID]location
	owners       map[model.Address][]model.OutputID
	totalSupply  model.Amount
	burned       model.Amount
	sequence     uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		transactions: make(map[model.TxID]*model.Transaction),
		outputs:      make(map[model.OutputID]location),
		owners:       make(map[model.Address][]model.OutputID),
	}
}

// Commit validates the spends of tx against current state, then applies the
// whole transition: inputs marked spent and dropped from the owner index,
// outputs registered under their owners, supply adjusted for mints and burns.
// A failed validation leaves the store untouched. The returned transaction
// carries the assigned sequence number.
func (s *Store) Commit(tx model.Transaction) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; exists {
		return model.Transaction{}, fmt.Errorf("transaction %s already recorded", tx.ID)
	}

	spends := make([]location, 0, len(tx.Inputs))
	seen := make(map[location]struct{}, len(tx.Inputs))
	for _, ref := range tx.Inputs {
		out, loc, err := s.resolve(ref)
		if err != nil {
			return model.Transaction{}, err
		}
		if out.Spent {
			return model.Transaction{}, fmt.Errorf("input %s[%d]: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrAlreadySpent)
		}
		// A ref appearing twice is a double-spend of the same output.
		if _, dup := seen[loc]; dup {
			return model.Transaction{}, fmt.Errorf("input %s[%d] duplicated: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrAlreadySpent)
		}
		seen[loc] = struct{}{}
		spends = append(spends, loc)
	}

	// Validation is complete; every mutation below must succeed.
	for _, loc := range spends {
		source := s.transactions[loc.txID]
		out := &source.Outputs[loc.index]
		out.Spent = true
		s.dropOwned(out.Owner, out.ID)
	}

	s.sequence++
	tx.Sequence = s.sequence

	stored := tx
	s.transactions[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	for i := range stored.Outputs {
		out := stored.Outputs[i]
		s.outputs[out.ID] = location{txID: stored.ID, index: uint32(i)}
		s.owners[out.Owner] = append(s.owners[out.Owner], out.ID)
	}

	var outputTotal model.Amount
	for _, out := range stored.Outputs {
		outputTotal += out.Value
	}
	if stored.Kind == model.KindMint {
		s.totalSupply += outputTotal
	}
	s.totalSupply -= stored.Burned
	s.burned += stored.Burned

	return stored, nil
}

// ResolveInput returns a copy of the output an input reference points at.
func (s *Store) ResolveInput(ref model.InputRef) (model.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, _, err := s.resolve(ref)
	if err != nil {
		return model.Output{}, err
	}
	return out, nil
}

// GetOutput returns a copy of an output by id.
func (s *Store) GetOutput(id model.OutputID) (model.Output, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.outputs[id]
	if !ok {
		return model.Output{}, false
	}
	return s.transactions[loc.txID].Outputs[loc.index], true
}

// OutputRef maps an output id back to its input reference form.
func (s *Store) OutputRef(id model.OutputID) (model.InputRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.outputs[id]
	if !ok {
		return model.InputRef{}, false
	}
	return model.InputRef{SourceTxID: loc.txID, OutputIndex: loc.index}, true
}

// BalanceOf folds the owner's unspent, unlocked outputs at the given time.
func (s *Store) BalanceOf(owner model.Address, now time.Time) model.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total model.Amount
	for _, id := range s.owners[owner] {
		loc := s.outputs[id]
		out := s.transactions[loc.txID].Outputs[loc.index]
		if out.Spent || out.Locked(now) {
			continue
		}
		total += out.Value
	}
	return total
}

// UTXOsOf returns copies of the owner's unspent outputs in creation order,
// locked ones included.
func (s *Store) UTXOsOf(owner model.Address) []model.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.owners[owner]
	outs := make([]model.Output, 0, len(ids))
	for _, id := range ids {
		loc := s.outputs[id]
		out := s.transactions[loc.txID].Outputs[loc.index]
		if out.Spent {
			continue
		}
		outs = append(outs, out)
	}
	return outs
}

// TotalSupply returns the circulating supply (minted minus burned).
func (s *Store) TotalSupply() model.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSupply
}

// Burned returns the cumulative amount burned by transfer shortfalls.
func (s *Store) Burned() model.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.burned
}

// TransactionByID returns a copy of a committed transaction.
func (s *Store) TransactionByID(id model.TxID) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return model.Transaction{}, false
	}
	return copyTransaction(tx), true
}

// TransactionsBySender scans the log in commit order for the sender's
// transactions, skipping offset matches and returning at most limit.
func (s *Store) TransactionsBySender(sender model.Address, offset, limit int) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched int
	txs := make([]model.Transaction, 0, limit)
	for _, id := range s.order {
		tx := s.transactions[id]
		if tx.Sender != sender {
			continue
		}
		matched++
		if matched <= offset {
			continue
		}
		txs = append(txs, copyTransaction(tx))
		if limit > 0 && len(txs) >= limit {
			break
		}
	}
	return txs
}

// TransactionsFromSequence returns up to limit transactions with sequence
// strictly greater than after, in commit order. Used for archive replay.
func (s *Store) TransactionsFromSequence(after uint64, limit int) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]model.Transaction, 0, limit)
	for _, id := range s.order {
		tx := s.transactions[id]
		if tx.Sequence <= after {
			continue
		}
		txs = append(txs, copyTransaction(tx))
		if limit > 0 && len(txs) >= limit {
			break
		}
	}
	return txs
}

// Sequence returns the sequence number of the latest committed transaction.
func (s *Store) Sequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequence
}

func (s *Store) resolve(ref model.InputRef) (model.Output, location, error) {
	source, ok := s.transactions[ref.SourceTxID]
	if !ok {
		return model.Output{}, location{}, fmt.Errorf("input %s[%d]: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrUnknownSource)
	}
	if int(ref.OutputIndex) >= len(source.Outputs) {
		return model.Output{}, location{}, fmt.Errorf("input %s[%d]: %w", ref.SourceTxID, ref.OutputIndex, ledger.ErrUnknownSource)
	}
	return source.Outputs[ref.OutputIndex], location{txID: ref.SourceTxID, index: ref.OutputIndex}, nil
}

func (s *Store) dropOwned(owner model.Address, id model.OutputID) {
	ids := s.owners[owner]
	for i, candidate := range ids {
		if candidate == id {
			s.owners[owner] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

func copyTransaction(tx *model.Transaction) model.Transaction {
	copied := *tx
	copied.Inputs = append([]model.InputRef(nil), tx.Inputs...)
	copied.Outputs = append([]model.Output(nil), tx.Outputs...)
	return copied
}
