package model

import "time"

// TransactionKind distinguishes how a transaction entered the ledger.
type TransactionKind string

var (
	// KindMint marks an input-less transaction created by a privileged mint.
	KindMint TransactionKind = "mint"
	// KindTransfer marks a transaction that consumed existing outputs.
	KindTransfer TransactionKind = "transfer"
)

// Output is an unspent transaction output. An Output lives inside exactly one
// Transaction; every index over outputs is a lookup alias into that storage.
type Output struct {
	ID         OutputID
	Value      Amount
	Owner      Address
	Spent      bool
	UnlockTime time.Time
}

// Locked reports whether the output cannot be spent yet at the given time.
func (o Output) Locked(now time.Time) bool {
	return now.Before(o.UnlockTime)
}

// InputRef points at an output by its creating transaction and position.
type InputRef struct {
	SourceTxID  TxID
	OutputIndex uint32
}

// Transaction is an immutable committed ledger transition. Sequence is a
// per-ledger monotonic counter assigned at commit time.
type Transaction struct {
	ID        TxID
	Kind      TransactionKind
	Sender    Address
	Inputs    []InputRef
	Outputs   []Output
	Burned    Amount
	Sequence  uint64
	Timestamp time.Time
}

// Record is the committed-transaction view handed to downstream consumers
// (compliance inspection, archival). It carries the value totals so consumers
// do not re-resolve inputs.
type Record struct {
	Tx          Transaction
	InputValue  Amount
	OutputValue Amount
}
