// Package engine validates and applies ledger transitions. Every operation
// checks all preconditions before mutating anything; a rejected call leaves
// the store untouched.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/store"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics observes engine operation outcomes.
	Metrics interface {
		ObserveMint(err error, started time.Time)
		ObserveTransfer(op string, err error, inputs, outputs int, started time.Time)
	}

	// Sink receives every committed transaction record in commit order.
	Sink interface {
		OnCommit(rec model.Record)
	}
)

// Payment describes one requested transfer output.
type Payment struct {
	Recipient  model.Address
	Value      model.Amount
	UnlockTime time.Time
}

// Engine is the single writer over its Store. Commits and sink notification
// happen under one lock, so sinks observe records in commit order.
type Engine struct {
	mu        sync.Mutex
	logger    *zap.Logger
	oracle    auth.Oracle
	store     *store.Store
	metrics   Metrics
	sinks     []Sink
	maxSupply model.Amount
	counter   uint64
	now       func() time.Time
}

// New builds an Engine over the given store and authorization oracle.
func New(st *store.Store, oracle auth.Oracle, metrics Metrics, maxSupply model.Amount, logger *zap.Logger) (*Engine, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if oracle == nil {
		return nil, errors.New("authorization oracle is required")
	}
	if metrics == nil {
		return nil, errors.New("engine metrics is required")
	}

	return &Engine{
		logger:    logger.Named("ledgerEngine"),
		oracle:    oracle,
		store:     st,
		metrics:   metrics,
		maxSupply: maxSupply,
		now:       time.Now,
	}, nil
}

// Subscribe registers a sink for committed transaction records. Not safe to
// call after the engine started committing.
func (e *Engine) Subscribe(sink Sink) {
	e.sinks = append(e.sinks, sink)
}

// Store exposes the read side of the ledger.
func (e *Engine) Store() *store.Store {
	return e.store
}

func (e *Engine) emit(rec model.Record) {
	for _, sink := range e.sinks {
		sink.OnCommit(rec)
	}
}
