package model

import "time"

// CaseReason classifies why a transaction was flagged.
type CaseReason string

var (
	// ReasonLargeTransaction flags a transaction above the value threshold.
	ReasonLargeTransaction CaseReason = "large_transaction"
	// ReasonHighFrequency flags a sender exceeding the per-window rate.
	ReasonHighFrequency CaseReason = "high_frequency"
	// ReasonSelfTransfer flags a transaction paying back to its own sender.
	ReasonSelfTransfer CaseReason = "self_transfer"
)

// Case is an append-only compliance record pending human investigation.
type Case struct {
	ID             CaseID
	TxID           TxID
	Sender         Address
	Recipient      Address
	Amount         Amount
	Reason         CaseReason
	Investigated   bool
	Disposition    string
	Timestamp      time.Time
	InvestigatedAt time.Time
}
