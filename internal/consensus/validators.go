package consensus

import (
	"fmt"

	"github.com/goodnatureofminers/tierledger-backend/internal/auth"
	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

// AddValidator activates a validator. The caller needs the management
// capability and the validator address needs the validator role. A
// previously removed validator is reactivated in place.
func (e *Engine) AddValidator(caller, addr model.Address, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.oracle.HasCapability(caller, auth.CapabilityManageValidators) {
		return fmt.Errorf("add validator by %s: %w", caller, ErrUnauthorized)
	}
	if e.oracle.RoleLevelOf(addr) < auth.LevelValidator {
		return fmt.Errorf("address %s lacks validator role: %w", addr, ErrUnauthorized)
	}
	if uint32(len(e.active)) >= e.cfg.MaxValidators {
		return fmt.Errorf("active set at %d: %w", len(e.active), ErrMaxValidatorsReached)
	}

	if v, ok := e.validators[addr]; ok {
		if v.Active {
			return fmt.Errorf("validator %s: %w", addr, ErrValidatorExists)
		}
		v.Active = true
		if name != "" {
			v.Name = name
		}
	} else {
		e.validators[addr] = &model.Validator{
			Address:  addr,
			Name:     name,
			Active:   true,
			JoinTime: e.now(),
		}
	}
	e.active = append(e.active, addr)
	e.metrics.SetActiveValidators(len(e.active))

	e.logger.Info("validator activated", zap.String("validator", string(addr)), zap.Int("active", len(e.active)))
	return nil
}

// RemoveValidator deactivates a validator. The record survives for audit and
// possible reactivation. Removal below the liveness floor is rejected so the
// registry always retains enough validators to reach quorum.
func (e *Engine) RemoveValidator(caller, addr model.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.oracle.HasCapability(caller, auth.CapabilityManageValidators) {
		return fmt.Errorf("remove validator by %s: %w", caller, ErrUnauthorized)
	}
	v, ok := e.validators[addr]
	if !ok || !v.Active {
		return fmt.Errorf("validator %s: %w", addr, ErrNotValidator)
	}
	if uint32(len(e.active)) <= e.cfg.MinValidators {
		return fmt.Errorf("active set at floor %d: %w", e.cfg.MinValidators, ErrMinValidatorsReached)
	}

	v.Active = false
	e.dropActive(addr)
	e.metrics.SetActiveValidators(len(e.active))

	e.logger.Info("validator deactivated", zap.String("validator", string(addr)), zap.Int("active", len(e.active)))
	return nil
}

// SetValidatorStatus flips a registered validator between active and
// inactive. Activation honors the max bound, deactivation the liveness
// floor. Setting the state it already has is a no-op.
func (e *Engine) SetValidatorStatus(caller, addr model.Address, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.oracle.HasCapability(caller, auth.CapabilityManageValidators) {
		return fmt.Errorf("set validator status by %s: %w", caller, ErrUnauthorized)
	}
	v, ok := e.validators[addr]
	if !ok {
		return fmt.Errorf("validator %s: %w", addr, ErrNotValidator)
	}
	if v.Active == active {
		return nil
	}

	if active {
		if uint32(len(e.active)) >= e.cfg.MaxValidators {
			return fmt.Errorf("active set at %d: %w", len(e.active), ErrMaxValidatorsReached)
		}
		v.Active = true
		e.active = append(e.active, addr)
	} else {
		if uint32(len(e.active)) <= e.cfg.MinValidators {
			return fmt.Errorf("active set at floor %d: %w", e.cfg.MinValidators, ErrMinValidatorsReached)
		}
		v.Active = false
		e.dropActive(addr)
	}
	e.metrics.SetActiveValidators(len(e.active))

	e.logger.Info("validator status changed",
		zap.String("validator", string(addr)), zap.Bool("active", active), zap.Int("active_count", len(e.active)))
	return nil
}

// ProposeBlock records proposal bookkeeping for an active validator. It does
// not affect verification.
func (e *Engine) ProposeBlock(validator model.Address, blockNumber uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.validators[validator]
	if !ok || !v.Active {
		return fmt.Errorf("proposer %s: %w", validator, ErrNotValidator)
	}

	v.LastBlockProposed = blockNumber
	v.ProposedCount++
	return nil
}

// ActiveValidators returns copies of the active validator records, in
// activation order.
func (e *Engine) ActiveValidators() []model.Validator {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.Validator, 0, len(e.active))
	for _, addr := range e.active {
		out = append(out, *e.validators[addr])
	}
	return out
}

// Validator returns a copy of a registry record, active or not.
func (e *Engine) Validator(addr model.Address) (model.Validator, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.validators[addr]
	if !ok {
		return model.Validator{}, false
	}
	return *v, true
}

// dropActive removes an address from the active index. Callers hold the
// engine lock.
func (e *Engine) dropActive(addr model.Address) {
	for i, candidate := range e.active {
		if candidate == addr {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return
		}
	}
}
