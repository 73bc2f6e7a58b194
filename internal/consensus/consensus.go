// Package consensus maintains the validator registry and finalizes blocks by
// quorum voting.
package consensus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

var (
	// ErrUnauthorized is returned when the caller lacks the required role
	// or capability.
	ErrUnauthorized = errors.New("caller not authorized")
	// ErrNotValidator is returned when an address is not an active
	// validator.
	ErrNotValidator = errors.New("not an active validator")
	// ErrValidatorExists is returned when adding an already-active
	// validator.
	ErrValidatorExists = errors.New("validator already active")
	// ErrMaxValidatorsReached is returned when the active set is full.
	ErrMaxValidatorsReached = errors.New("max validators reached")
	// ErrMinValidatorsReached is returned when removal would break the
	// liveness floor.
	ErrMinValidatorsReached = errors.New("min validators reached")
	// ErrDuplicateVote is returned on a second vote for the same block.
	ErrDuplicateVote = errors.New("duplicate vote")
	// ErrAlreadyVerified is returned when reopening a finalized block.
	ErrAlreadyVerified = errors.New("block already verified")
)

// Metrics observes registry and voting outcomes.
type Metrics interface {
	ObserveVote(err error, started time.Time)
	ObserveVerified(blockNumber uint64)
	SetActiveValidators(count int)
}

// Config bounds the validator set and fixes the quorum. The quorum is an
// absolute vote count, not a fraction of the current set.
type Config struct {
	Quorum        uint32
	MinValidators uint32
	MaxValidators uint32
}

// Validate rejects configurations that could never finalize a block: the
// active set is allowed to shrink to MinValidators, so the minimum must
// still be able to reach quorum.
func (c Config) Validate() error {
	if c.Quorum == 0 {
		return errors.New("quorum must be at least 1")
	}
	if c.MinValidators < c.Quorum {
		return fmt.Errorf("min validators %d below quorum %d", c.MinValidators, c.Quorum)
	}
	if c.MaxValidators < c.MinValidators {
		return fmt.Errorf("max validators %d below min %d", c.MaxValidators, c.MinValidators)
	}
	return nil
}

// Engine is the validator registry and per-block vote tally. All state is
// guarded by one lock; each operation is a single serialized step.
type Engine struct {
	mu            sync.Mutex
	logger        *zap.Logger
	oracle        auth.Oracle
	metrics       Metrics
	cfg           Config
	validators    map[model.Address]*model.Validator
	active        []model.Address
	votes         map[uint64]map[model.Address]model.Vote
	verifications map[uint64]*model.BlockVerification
	currentBlock  uint64
	now           func() time.Time
}

// New builds an Engine after validating the configuration.
func New(cfg Config, oracle auth.Oracle, metrics Metrics, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consensus config: %w", err)
	}
	if oracle == nil {
		return nil, errors.New("authorization oracle is required")
	}
	if metrics == nil {
		return nil, errors.New("consensus metrics is required")
	}

	return &Engine{
		logger:        logger.Named("consensus"),
		oracle:        oracle,
		metrics:       metrics,
		cfg:           cfg,
		validators:    make(map[model.Address]*model.Validator),
		votes:         make(map[uint64]map[model.Address]model.Vote),
		verifications: make(map[uint64]*model.BlockVerification),
		now:           time.Now,
	}, nil
}

// CurrentBlock returns the engine's current block pointer.
func (e *Engine) CurrentBlock() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentBlock
}
