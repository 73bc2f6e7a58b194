package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/consensus"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/compliance"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/engine"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/store"
)

type nopLedgerMetrics struct{}

func (nopLedgerMetrics) ObserveMint(error, time.Time) {}

func (nopLedgerMetrics) ObserveTransfer(string, error, int, int, time.Time) {}

type nopComplianceMetrics struct{}

func (nopComplianceMetrics) ObserveInspect(int, time.Time) {}

func (nopComplianceMetrics) ObserveInvestigate(error, time.Time) {}

type nopConsensusMetrics struct{}

func (nopConsensusMetrics) ObserveVote(error, time.Time) {}

func (nopConsensusMetrics) ObserveVerified(uint64) {}

func (nopConsensusMetrics) SetActiveValidators(int) {}

type fixture struct {
	server *httptest.Server
	engine *engine.Engine
	mintTx model.Transaction
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	oracle := auth.NewStaticOracle(map[model.Address]auth.Level{
		"bank":      auth.LevelPrimaryBank,
		"regulator": auth.LevelRegulator,
		"alice":     auth.LevelUser,
		"v1":        auth.LevelValidator,
		"v2":        auth.LevelValidator,
	})

	st := store.New()
	eng, err := engine.New(st, oracle, nopLedgerMetrics{}, 1_000_000, zap.NewNop())
	if err != nil {
		t.Fatalf("engine.New error: %v", err)
	}

	mon, err := compliance.NewMonitor(oracle, nopComplianceMetrics{}, compliance.DefaultThresholds(), zap.NewNop())
	if err != nil {
		t.Fatalf("compliance.NewMonitor error: %v", err)
	}

	cons, err := consensus.New(consensus.Config{Quorum: 2, MinValidators: 2, MaxValidators: 5}, oracle, nopConsensusMetrics{}, zap.NewNop())
	if err != nil {
		t.Fatalf("consensus.New error: %v", err)
	}
	for _, v := range []model.Address{"v1", "v2"} {
		if err := cons.AddValidator("regulator", v, string(v)); err != nil {
			t.Fatalf("AddValidator(%s) error: %v", v, err)
		}
	}

	tx, err := eng.Mint("bank", "alice", 5_000)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	if err := cons.VerifyBlock("v1", 1, 1); err != nil {
		t.Fatalf("VerifyBlock error: %v", err)
	}
	if err := cons.CastVote("v1", 1, tx.ID, true); err != nil {
		t.Fatalf("CastVote error: %v", err)
	}

	handler, err := NewLedgerHandler(st, cons, mon, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLedgerHandler error: %v", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &fixture{server: server, engine: eng, mintTx: tx}
}

func (f *fixture) get(t *testing.T, path string, wantStatus int, out any) {
	t.Helper()

	res, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s error: %v", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", path, res.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("GET %s decode error: %v", path, err)
		}
	}
}

func TestLedgerHandler_Balance(t *testing.T) {
	f := newFixture(t)

	var body struct {
		Address string       `json:"address"`
		Balance model.Amount `json:"balance"`
	}
	f.get(t, "/v1/accounts/alice/balance", http.StatusOK, &body)

	if body.Address != "alice" || body.Balance != 5_000 {
		t.Fatalf("unexpected balance response: %+v", body)
	}
}

func TestLedgerHandler_Supply(t *testing.T) {
	f := newFixture(t)

	var body struct {
		TotalSupply model.Amount `json:"total_supply"`
		Burned      model.Amount `json:"burned"`
	}
	f.get(t, "/v1/supply", http.StatusOK, &body)

	if body.TotalSupply != 5_000 || body.Burned != 0 {
		t.Fatalf("unexpected supply response: %+v", body)
	}
}

func TestLedgerHandler_UTXOs(t *testing.T) {
	f := newFixture(t)

	var body []outputPayload
	f.get(t, "/v1/accounts/alice/utxos", http.StatusOK, &body)

	if len(body) != 1 || body[0].Value != 5_000 || body[0].Owner != "alice" {
		t.Fatalf("unexpected utxos: %+v", body)
	}
}

func TestLedgerHandler_TransactionByID(t *testing.T) {
	f := newFixture(t)

	var body transactionPayload
	f.get(t, "/v1/transactions/"+string(f.mintTx.ID), http.StatusOK, &body)

	if body.ID != f.mintTx.ID || body.Kind != model.KindMint || body.Sender != "bank" {
		t.Fatalf("unexpected transaction: %+v", body)
	}

	f.get(t, "/v1/transactions/no-such-tx", http.StatusNotFound, nil)
}

func TestLedgerHandler_TransactionsBySender(t *testing.T) {
	f := newFixture(t)

	var body []transactionPayload
	f.get(t, "/v1/accounts/bank/transactions", http.StatusOK, &body)
	if len(body) != 1 || body[0].ID != f.mintTx.ID {
		t.Fatalf("unexpected transactions: %+v", body)
	}

	f.get(t, "/v1/accounts/bank/transactions?limit=0", http.StatusBadRequest, nil)
	f.get(t, "/v1/accounts/bank/transactions?offset=-1", http.StatusBadRequest, nil)
}

func TestLedgerHandler_Validators(t *testing.T) {
	f := newFixture(t)

	var body []validatorPayload
	f.get(t, "/v1/validators", http.StatusOK, &body)

	if len(body) != 2 || body[0].Address != "v1" || body[1].Address != "v2" {
		t.Fatalf("unexpected validators: %+v", body)
	}
}

func TestLedgerHandler_BlockVerificationAndVotes(t *testing.T) {
	f := newFixture(t)

	var verification verificationPayload
	f.get(t, "/v1/blocks/1/verification", http.StatusOK, &verification)
	if verification.BlockNumber != 1 || verification.Approvals != 1 {
		t.Fatalf("unexpected verification: %+v", verification)
	}

	var votes []votePayload
	f.get(t, "/v1/blocks/1/votes", http.StatusOK, &votes)
	if len(votes) != 1 || votes[0].Validator != "v1" || !votes[0].Approve {
		t.Fatalf("unexpected votes: %+v", votes)
	}

	f.get(t, "/v1/blocks/99/verification", http.StatusNotFound, nil)
	f.get(t, "/v1/blocks/abc/verification", http.StatusBadRequest, nil)
}

func TestLedgerHandler_Cases(t *testing.T) {
	f := newFixture(t)

	f.get(t, "/v1/cases/no-such-case", http.StatusNotFound, nil)

	var cases []casePayload
	f.get(t, "/v1/accounts/alice/cases", http.StatusOK, &cases)
	if len(cases) != 0 {
		t.Fatalf("expected no cases, got %+v", cases)
	}
}

func TestLedgerHandler_Health(t *testing.T) {
	f := newFixture(t)

	var body map[string]string
	f.get(t, "/v1/health", http.StatusOK, &body)
	if body["status"] != "healthy" {
		t.Fatalf("unexpected health response: %+v", body)
	}
}
