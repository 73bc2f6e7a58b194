// Package model defines domain models for the tiered ledger.
package model

// Address identifies an account, validator or case subject. Addresses are
// assigned by the external identity service and treated as opaque here.
type Address string

// Amount is a ledger value denominated in the smallest unit.
type Amount uint64

// TxID is the deterministic identifier of a committed transaction.
type TxID string

// OutputID is the deterministic identifier of a transaction output.
type OutputID string

// CaseID identifies a compliance case record.
type CaseID string
