package engine

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// deriveTxID hashes the sender with the engine's monotonic counter and the
// ledger sequence the transaction will commit at. No wall-clock input, so
// ids are reproducible and collision-free across restarts of the same log.
func deriveTxID(sender model.Address, counter, sequence uint64) model.TxID {
	buf := make([]byte, 0, len(sender)+16)
	buf = append(buf, sender...)
	buf = binary.BigEndian.AppendUint64(buf, counter)
	buf = binary.BigEndian.AppendUint64(buf, sequence)
	return model.TxID(chainhash.HashH(buf).String())
}

// deriveOutputID hashes the creating transaction id with the output's
// position, the one derivation rule for every path that creates outputs.
// Spend inputs can therefore always recover the id they reference.
func deriveOutputID(txID model.TxID, index uint32) model.OutputID {
	buf := make([]byte, 0, len(txID)+4)
	buf = append(buf, txID...)
	buf = binary.BigEndian.AppendUint32(buf, index)
	return model.OutputID(chainhash.HashH(buf).String())
}
