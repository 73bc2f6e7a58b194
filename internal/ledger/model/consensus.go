package model

import "time"

// Validator is a registry entry. Validators are deactivated, never deleted.
type Validator struct {
	Address           Address
	Name              string
	Active            bool
	JoinTime          time.Time
	LastBlockProposed uint64
	ProposedCount     uint64
	VoteCount         uint64
}

// Vote is a single validator's finalization vote for a block. At most one
// vote per (validator, block) is ever recorded.
type Vote struct {
	Validator   Address
	BlockNumber uint64
	TxID        TxID
	Approve     bool
	Timestamp   time.Time
}

// BlockVerification tracks the vote tally for one block. Verified transitions
// once from false to true and never reverts.
type BlockVerification struct {
	BlockNumber uint64
	TxCount     uint32
	Approvals   uint32
	Rejections  uint32
	Verified    bool
	Timestamp   time.Time
}
