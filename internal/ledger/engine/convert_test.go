package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

func TestEngine_AccountToUTXO(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Mint("bank", "alice", 30); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := e.Mint("bank", "alice", 70); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	tx, err := e.AccountToUTXO("alice", 50)
	if err != nil {
		t.Fatalf("AccountToUTXO returned error: %v", err)
	}
	if len(tx.Outputs) != 2 {
		t.Fatalf("outputs = %d, want amount plus change", len(tx.Outputs))
	}
	if tx.Outputs[0].Value != 50 || tx.Outputs[0].Owner != "alice" {
		t.Fatalf("carved output = %+v", tx.Outputs[0])
	}
	if got := e.Store().BalanceOf("alice", time.Now()); got != 100 {
		t.Fatalf("BalanceOf(alice) = %d, want 100", got)
	}
}

func TestEngine_AccountToUTXO_InsufficientBalance(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Mint("bank", "alice", 30); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	_, err := e.AccountToUTXO("alice", 50)
	if !errors.Is(err, ledger.ErrValueExceedsInput) {
		t.Fatalf("AccountToUTXO error = %v, want ErrValueExceedsInput", err)
	}
	if got := e.Store().Sequence(); got != 1 {
		t.Fatalf("Sequence() = %d, want 1", got)
	}
}

func TestEngine_UTXOToAccount(t *testing.T) {
	e := newTestEngine(t)
	m1, err := e.Mint("bank", "alice", 30)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	m2, err := e.Mint("bank", "alice", 70)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	ids := []model.OutputID{m1.Outputs[0].ID, m2.Outputs[0].ID}
	tx, err := e.UTXOToAccount("alice", ids, 80)
	if err != nil {
		t.Fatalf("UTXOToAccount returned error: %v", err)
	}
	if len(tx.Inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(tx.Inputs))
	}
	if tx.Outputs[0].Value != 80 || tx.Outputs[1].Value != 20 {
		t.Fatalf("outputs = %+v", tx.Outputs)
	}
	if got := e.Store().BalanceOf("alice", time.Now()); got != 100 {
		t.Fatalf("BalanceOf(alice) = %d, want 100", got)
	}
}

func TestEngine_UTXOToAccount_Errors(t *testing.T) {
	e := newTestEngine(t)
	mint, err := e.Mint("bank", "alice", 30)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := e.UTXOToAccount("alice", []model.OutputID{"missing"}, 10); !errors.Is(err, ledger.ErrUnknownSource) {
		t.Fatalf("unknown id error = %v, want ErrUnknownSource", err)
	}
	if _, err := e.UTXOToAccount("alice", []model.OutputID{mint.Outputs[0].ID}, 40); !errors.Is(err, ledger.ErrValueExceedsInput) {
		t.Fatalf("over-draw error = %v, want ErrValueExceedsInput", err)
	}
	if _, err := e.UTXOToAccount("bob", []model.OutputID{mint.Outputs[0].ID}, 10); !errors.Is(err, ledger.ErrNotOwner) {
		t.Fatalf("foreign output error = %v, want ErrNotOwner", err)
	}
}

func TestEngine_UTXOToAccount_DuplicateIDRejected(t *testing.T) {
	e := newTestEngine(t)
	mint, err := e.Mint("bank", "alice", 30)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	id := mint.Outputs[0].ID
	_, err = e.UTXOToAccount("alice", []model.OutputID{id, id}, 60)
	if !errors.Is(err, ledger.ErrAlreadySpent) {
		t.Fatalf("duplicated id error = %v, want ErrAlreadySpent", err)
	}
	if got := e.Store().BalanceOf("alice", time.Now()); got != 30 {
		t.Fatalf("BalanceOf(alice) = %d, want 30", got)
	}
}
