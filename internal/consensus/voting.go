package consensus

import (
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

// CastVote records an active validator's vote for a block and retallies. The
// first vote per (validator, block) wins; later ones are rejected rather
// than overwritten.
func (e *Engine) CastVote(validator model.Address, blockNumber uint64, txID model.TxID, approve bool) error {
	started := time.Now()
	var err error
	defer func() {
		e.metrics.ObserveVote(err, started)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.validators[validator]
	if !ok || !v.Active {
		err = fmt.Errorf("voter %s: %w", validator, ErrNotValidator)
		return err
	}

	blockVotes := e.votes[blockNumber]
	if blockVotes == nil {
		blockVotes = make(map[model.Address]model.Vote)
		e.votes[blockNumber] = blockVotes
	}
	if _, voted := blockVotes[validator]; voted {
		err = fmt.Errorf("validator %s block %d: %w", validator, blockNumber, ErrDuplicateVote)
		return err
	}

	blockVotes[validator] = model.Vote{
		Validator:   validator,
		BlockNumber: blockNumber,
		TxID:        txID,
		Approve:     approve,
		Timestamp:   e.now(),
	}
	v.VoteCount++

	e.tally(blockNumber)
	return nil
}

// VerifyBlock opens a fresh unverified record for a block and advances the
// current-block pointer. The caller must hold the validator role.
func (e *Engine) VerifyBlock(caller model.Address, blockNumber uint64, txCount uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.oracle.RoleLevelOf(caller) < auth.LevelValidator {
		return fmt.Errorf("verify block by %s: %w", caller, ErrUnauthorized)
	}
	if existing, ok := e.verifications[blockNumber]; ok && existing.Verified {
		return fmt.Errorf("block %d: %w", blockNumber, ErrAlreadyVerified)
	}

	e.verifications[blockNumber] = &model.BlockVerification{
		BlockNumber: blockNumber,
		TxCount:     txCount,
		Timestamp:   e.now(),
	}
	e.currentBlock = blockNumber

	// Votes may have arrived before the record was opened.
	e.tally(blockNumber)
	return nil
}

// BlockVerification returns a copy of a block's tally record.
func (e *Engine) BlockVerification(blockNumber uint64) (model.BlockVerification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.verifications[blockNumber]
	if !ok {
		return model.BlockVerification{}, false
	}
	return *rec, true
}

// VotesFor returns copies of a block's votes ordered by validator address.
func (e *Engine) VotesFor(blockNumber uint64) []model.Vote {
	e.mu.Lock()
	defer e.mu.Unlock()

	blockVotes := e.votes[blockNumber]
	out := make([]model.Vote, 0, len(blockVotes))
	for _, vote := range blockVotes {
		out = append(out, vote)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Validator < out[j].Validator })
	return out
}

// tally recomputes a block's counts from its recorded votes. Finalization is
// monotonic: once verified, re-tallying only refreshes the counters and can
// never flip the record back. Callers hold the engine lock.
func (e *Engine) tally(blockNumber uint64) {
	rec, ok := e.verifications[blockNumber]
	if !ok {
		rec = &model.BlockVerification{BlockNumber: blockNumber, Timestamp: e.now()}
		e.verifications[blockNumber] = rec
	}

	var approvals, rejections uint32
	for _, vote := range e.votes[blockNumber] {
		if vote.Approve {
			approvals++
		} else {
			rejections++
		}
	}
	rec.Approvals = approvals
	rec.Rejections = rejections

	if rec.Verified {
		return
	}
	if approvals >= e.cfg.Quorum && approvals > rejections {
		rec.Verified = true
		rec.Timestamp = e.now()
		e.metrics.ObserveVerified(blockNumber)
		e.logger.Info("block verified",
			zap.Uint64("block", blockNumber),
			zap.Uint32("approvals", approvals),
			zap.Uint32("rejections", rejections),
		)
	}
}
