// Package compliance inspects committed transactions for suspicious
// patterns. The monitor is read-only toward the ledger and append-only
// toward its own case store.
package compliance

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

type (
	// Metrics observes inspection and investigation outcomes.
	Metrics interface {
		ObserveInspect(flagged int, started time.Time)
		ObserveInvestigate(err error, started time.Time)
	}

	// CaseSink receives every opened case, in open order.
	CaseSink interface {
		OnCase(c model.Case)
	}
)

// Thresholds are the runtime-tunable suspicion limits.
type Thresholds struct {
	// LargeTxAmount flags any transaction whose output total exceeds it.
	LargeTxAmount model.Amount
	// MaxTxPerWindow flags a sender exceeding this count within Window.
	MaxTxPerWindow int
	// Window is the rolling frequency window. Idle time beyond it resets
	// the sender's count.
	Window time.Duration
}

// DefaultThresholds mirror the regulator's initial policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LargeTxAmount:  1_000_000,
		MaxTxPerWindow: 10,
		Window:         time.Hour,
	}
}

type senderActivity struct {
	count    int
	lastSeen time.Time
}

// Monitor classifies committed transactions and keeps the case files.
type Monitor struct {
	mu         sync.Mutex
	logger     *zap.Logger
	oracle     auth.Oracle
	metrics    Metrics
	thresholds Thresholds
	activity   map[model.Address]*senderActivity
	cases      map[model.CaseID]*model.Case
	byAddress  map[model.Address][]model.CaseID
	order      []model.CaseID
	sinks      []CaseSink
	now        func() time.Time
}

// NewMonitor builds a Monitor with the given thresholds.
func NewMonitor(oracle auth.Oracle, metrics Metrics, thresholds Thresholds, logger *zap.Logger) (*Monitor, error) {
	if oracle == nil {
		return nil, errors.New("authorization oracle is required")
	}
	if metrics == nil {
		return nil, errors.New("compliance metrics is required")
	}

	return &Monitor{
		logger:     logger.Named("compliance"),
		oracle:     oracle,
		metrics:    metrics,
		thresholds: thresholds,
		activity:   make(map[model.Address]*senderActivity),
		cases:      make(map[model.CaseID]*model.Case),
		byAddress:  make(map[model.Address][]model.CaseID),
		now:        time.Now,
	}, nil
}

// Subscribe registers a sink for opened cases.
func (m *Monitor) Subscribe(sink CaseSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
}

// OnCommit inspects one committed transaction. Implements the transaction
// engine's sink interface.
func (m *Monitor) OnCommit(rec model.Record) {
	started := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var opened []model.Case

	if rec.OutputValue > m.thresholds.LargeTxAmount {
		opened = append(opened, m.openCase(rec, model.ReasonLargeTransaction, firstRecipient(rec.Tx), rec.OutputValue, now))
	}

	// The count survives as long as the sender never goes idle for a full
	// window; only idleness resets it.
	act := m.activity[rec.Tx.Sender]
	if act == nil || now.Sub(act.lastSeen) > m.thresholds.Window {
		act = &senderActivity{}
		m.activity[rec.Tx.Sender] = act
	}
	act.lastSeen = now
	act.count++
	if act.count > m.thresholds.MaxTxPerWindow {
		opened = append(opened, m.openCase(rec, model.ReasonHighFrequency, firstRecipient(rec.Tx), rec.OutputValue, now))
	}

	for _, out := range rec.Tx.Outputs {
		if out.Owner == rec.Tx.Sender && rec.Tx.Kind == model.KindTransfer {
			opened = append(opened, m.openCase(rec, model.ReasonSelfTransfer, out.Owner, out.Value, now))
			break
		}
	}

	for _, c := range opened {
		m.logger.Info("transaction flagged",
			zap.String("tx", string(c.TxID)),
			zap.String("sender", string(c.Sender)),
			zap.String("reason", string(c.Reason)),
		)
		for _, sink := range m.sinks {
			sink.OnCase(c)
		}
	}
	m.metrics.ObserveInspect(len(opened), started)
}

// Investigate closes a case exactly once, recording the disposition. The
// caller must hold the audit capability.
func (m *Monitor) Investigate(caller model.Address, id model.CaseID, disposition string) error {
	started := time.Now()
	var err error
	defer func() {
		m.metrics.ObserveInvestigate(err, started)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.oracle.HasCapability(caller, auth.CapabilityAudit) {
		err = fmt.Errorf("investigate by %s: %w", caller, ledger.ErrUnauthorized)
		return err
	}
	c, ok := m.cases[id]
	if !ok {
		err = fmt.Errorf("case %s: %w", id, ledger.ErrUnknownCase)
		return err
	}
	if c.Investigated {
		err = fmt.Errorf("case %s: %w", id, ledger.ErrAlreadyInvestigated)
		return err
	}

	c.Investigated = true
	c.Disposition = disposition
	c.InvestigatedAt = m.now()
	return nil
}

// SetThresholds replaces the suspicion limits. The caller must hold the
// configure capability.
func (m *Monitor) SetThresholds(caller model.Address, t Thresholds) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.oracle.HasCapability(caller, auth.CapabilityConfigure) {
		return fmt.Errorf("set thresholds by %s: %w", caller, ledger.ErrUnauthorized)
	}
	m.thresholds = t
	return nil
}

// CaseByID returns a copy of a case record.
func (m *Monitor) CaseByID(id model.CaseID) (model.Case, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[id]
	if !ok {
		return model.Case{}, false
	}
	return *c, true
}

// CasesByAddress returns copies of the cases naming the address as sender or
// recipient, in open order.
func (m *Monitor) CasesByAddress(addr model.Address) []model.Case {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byAddress[addr]
	out := make([]model.Case, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.cases[id])
	}
	return out
}

// openCase appends a new case record. Callers hold the monitor lock.
func (m *Monitor) openCase(rec model.Record, reason model.CaseReason, recipient model.Address, amount model.Amount, now time.Time) model.Case {
	c := model.Case{
		ID:        deriveCaseID(rec.Tx.ID, reason),
		TxID:      rec.Tx.ID,
		Sender:    rec.Tx.Sender,
		Recipient: recipient,
		Amount:    amount,
		Reason:    reason,
		Timestamp: now,
	}

	stored := c
	m.cases[c.ID] = &stored
	m.order = append(m.order, c.ID)
	m.byAddress[c.Sender] = append(m.byAddress[c.Sender], c.ID)
	if recipient != "" && recipient != c.Sender {
		m.byAddress[recipient] = append(m.byAddress[recipient], c.ID)
	}
	return c
}

// deriveCaseID keeps case ids deterministic per (transaction, reason), which
// also makes a duplicate flag for the same cause impossible.
func deriveCaseID(txID model.TxID, reason model.CaseReason) model.CaseID {
	buf := make([]byte, 0, len(txID)+len(reason)+4)
	buf = append(buf, txID...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(reason)))
	buf = append(buf, reason...)
	return model.CaseID(chainhash.HashH(buf).String())
}

func firstRecipient(tx model.Transaction) model.Address {
	if len(tx.Outputs) == 0 {
		return ""
	}
	return tx.Outputs[0].Owner
}
