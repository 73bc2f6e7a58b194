// Package transport exposes the read-only HTTP query API.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/tierledger-backend/internal/consensus"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/compliance"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/store"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// LedgerHandler serves ledger, consensus, and compliance read queries.
// Mutating operations are invoked in-process, never over HTTP.
type LedgerHandler struct {
	store      *store.Store
	consensus  *consensus.Engine
	compliance *compliance.Monitor
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedgerHandler returns a LedgerHandler instance.
func NewLedgerHandler(st *store.Store, cons *consensus.Engine, mon *compliance.Monitor, logger *zap.Logger) (*LedgerHandler, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if cons == nil {
		return nil, errors.New("consensus engine is required")
	}
	if mon == nil {
		return nil, errors.New("compliance monitor is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &LedgerHandler{
		store:      st,
		consensus:  cons,
		compliance: mon,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Register mounts all query routes on the mux.
func (h *LedgerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/health", h.health)
	mux.HandleFunc("GET /v1/supply", h.supply)
	mux.HandleFunc("GET /v1/accounts/{address}/balance", h.balance)
	mux.HandleFunc("GET /v1/accounts/{address}/utxos", h.utxos)
	mux.HandleFunc("GET /v1/accounts/{address}/transactions", h.transactionsBySender)
	mux.HandleFunc("GET /v1/accounts/{address}/cases", h.casesByAddress)
	mux.HandleFunc("GET /v1/transactions/{id}", h.transactionByID)
	mux.HandleFunc("GET /v1/validators", h.validators)
	mux.HandleFunc("GET /v1/blocks/{number}/verification", h.blockVerification)
	mux.HandleFunc("GET /v1/blocks/{number}/votes", h.blockVotes)
	mux.HandleFunc("GET /v1/cases/{id}", h.caseByID)
}

type outputPayload struct {
	ID         model.OutputID `json:"id"`
	Value      model.Amount   `json:"value"`
	Owner      model.Address  `json:"owner"`
	Spent      bool           `json:"spent"`
	UnlockTime *time.Time     `json:"unlock_time,omitempty"`
}

type inputPayload struct {
	SourceTxID  model.TxID `json:"source_tx_id"`
	OutputIndex uint32     `json:"output_index"`
}

type transactionPayload struct {
	ID        model.TxID            `json:"id"`
	Kind      model.TransactionKind `json:"kind"`
	Sender    model.Address         `json:"sender"`
	Inputs    []inputPayload        `json:"inputs"`
	Outputs   []outputPayload       `json:"outputs"`
	Burned    model.Amount          `json:"burned"`
	Sequence  uint64                `json:"sequence"`
	Timestamp time.Time             `json:"timestamp"`
}

type validatorPayload struct {
	Address           model.Address `json:"address"`
	Name              string        `json:"name"`
	Active            bool          `json:"active"`
	JoinTime          time.Time     `json:"join_time"`
	LastBlockProposed uint64        `json:"last_block_proposed"`
	ProposedCount     uint64        `json:"proposed_count"`
	VoteCount         uint64        `json:"vote_count"`
}

type votePayload struct {
	Validator   model.Address `json:"validator"`
	BlockNumber uint64        `json:"block_number"`
	TxID        model.TxID    `json:"tx_id"`
	Approve     bool          `json:"approve"`
	Timestamp   time.Time     `json:"timestamp"`
}

type verificationPayload struct {
	BlockNumber uint64    `json:"block_number"`
	TxCount     uint32    `json:"tx_count"`
	Approvals   uint32    `json:"approvals"`
	Rejections  uint32    `json:"rejections"`
	Verified    bool      `json:"verified"`
	Timestamp   time.Time `json:"timestamp"`
}

type casePayload struct {
	ID             model.CaseID     `json:"id"`
	TxID           model.TxID       `json:"tx_id"`
	Sender         model.Address    `json:"sender"`
	Recipient      model.Address    `json:"recipient,omitempty"`
	Amount         model.Amount     `json:"amount"`
	Reason         model.CaseReason `json:"reason"`
	Investigated   bool             `json:"investigated"`
	Disposition    string           `json:"disposition,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
	InvestigatedAt *time.Time       `json:"investigated_at,omitempty"`
}

func (h *LedgerHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *LedgerHandler) supply(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]model.Amount{
		"total_supply": h.store.TotalSupply(),
		"burned":       h.store.Burned(),
	})
}

func (h *LedgerHandler) balance(w http.ResponseWriter, r *http.Request) {
	addr := model.Address(r.PathValue("address"))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"address": addr,
		"balance": h.store.BalanceOf(addr, h.now()),
	})
}

func (h *LedgerHandler) utxos(w http.ResponseWriter, r *http.Request) {
	addr := model.Address(r.PathValue("address"))
	outputs := h.store.UTXOsOf(addr)
	payload := make([]outputPayload, 0, len(outputs))
	for _, out := range outputs {
		payload = append(payload, toOutputPayload(out))
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *LedgerHandler) transactionsBySender(w http.ResponseWriter, r *http.Request) {
	addr := model.Address(r.PathValue("address"))
	offset, limit, err := pagination(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	txs := h.store.TransactionsBySender(addr, offset, limit)
	payload := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		payload = append(payload, toTransactionPayload(tx))
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *LedgerHandler) transactionByID(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.store.TransactionByID(model.TxID(r.PathValue("id")))
	if !ok {
		h.writeError(w, http.StatusNotFound, errors.New("transaction not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionPayload(tx))
}

func (h *LedgerHandler) validators(w http.ResponseWriter, _ *http.Request) {
	active := h.consensus.ActiveValidators()
	payload := make([]validatorPayload, 0, len(active))
	for _, v := range active {
		payload = append(payload, validatorPayload{
			Address:           v.Address,
			Name:              v.Name,
			Active:            v.Active,
			JoinTime:          v.JoinTime,
			LastBlockProposed: v.LastBlockProposed,
			ProposedCount:     v.ProposedCount,
			VoteCount:         v.VoteCount,
		})
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *LedgerHandler) blockVerification(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(r.PathValue("number"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid block number"))
		return
	}
	v, ok := h.consensus.BlockVerification(number)
	if !ok {
		h.writeError(w, http.StatusNotFound, errors.New("block not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, verificationPayload{
		BlockNumber: v.BlockNumber,
		TxCount:     v.TxCount,
		Approvals:   v.Approvals,
		Rejections:  v.Rejections,
		Verified:    v.Verified,
		Timestamp:   v.Timestamp,
	})
}

func (h *LedgerHandler) blockVotes(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(r.PathValue("number"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid block number"))
		return
	}
	votes := h.consensus.VotesFor(number)
	payload := make([]votePayload, 0, len(votes))
	for _, v := range votes {
		payload = append(payload, votePayload{
			Validator:   v.Validator,
			BlockNumber: v.BlockNumber,
			TxID:        v.TxID,
			Approve:     v.Approve,
			Timestamp:   v.Timestamp,
		})
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *LedgerHandler) caseByID(w http.ResponseWriter, r *http.Request) {
	c, ok := h.compliance.CaseByID(model.CaseID(r.PathValue("id")))
	if !ok {
		h.writeError(w, http.StatusNotFound, errors.New("case not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, toCasePayload(c))
}

func (h *LedgerHandler) casesByAddress(w http.ResponseWriter, r *http.Request) {
	cases := h.compliance.CasesByAddress(model.Address(r.PathValue("address")))
	payload := make([]casePayload, 0, len(cases))
	for _, c := range cases {
		payload = append(payload, toCasePayload(c))
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *LedgerHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response not encoded", zap.Error(err))
	}
}

func (h *LedgerHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pagination(r *http.Request) (offset, limit int, err error) {
	limit = defaultPageLimit
	q := r.URL.Query()
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("invalid offset")
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxPageLimit {
			return 0, 0, errors.New("invalid limit")
		}
	}
	return offset, limit, nil
}

func toOutputPayload(out model.Output) outputPayload {
	p := outputPayload{
		ID:    out.ID,
		Value: out.Value,
		Owner: out.Owner,
		Spent: out.Spent,
	}
	if !out.UnlockTime.IsZero() {
		t := out.UnlockTime
		p.UnlockTime = &t
	}
	return p
}

func toTransactionPayload(tx model.Transaction) transactionPayload {
	inputs := make([]inputPayload, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, inputPayload{SourceTxID: in.SourceTxID, OutputIndex: in.OutputIndex})
	}
	outputs := make([]outputPayload, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outputs = append(outputs, toOutputPayload(out))
	}
	return transactionPayload{
		ID:        tx.ID,
		Kind:      tx.Kind,
		Sender:    tx.Sender,
		Inputs:    inputs,
		Outputs:   outputs,
		Burned:    tx.Burned,
		Sequence:  tx.Sequence,
		Timestamp: tx.Timestamp,
	}
}

func toCasePayload(c model.Case) casePayload {
	p := casePayload{
		ID:           c.ID,
		TxID:         c.TxID,
		Sender:       c.Sender,
		Recipient:    c.Recipient,
		Amount:       c.Amount,
		Reason:       c.Reason,
		Investigated: c.Investigated,
		Disposition:  c.Disposition,
		Timestamp:    c.Timestamp,
	}
	if !c.InvestigatedAt.IsZero() {
		t := c.InvestigatedAt
		p.InvestigatedAt = &t
	}
	return p
}
