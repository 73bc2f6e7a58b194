package auth

import (
	"sync"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// StaticOracle is a map-backed Oracle for tests and single-node deployments
// where the identity service is bootstrapped from configuration.
type StaticOracle struct {
	mu    sync.RWMutex
	roles map[model.Address]Level
}

// NewStaticOracle builds a StaticOracle from an initial role assignment.
func NewStaticOracle(roles map[model.Address]Level) *StaticOracle {
	copied := make(map[model.Address]Level, len(roles))
	for addr, level := range roles {
		copied[addr] = level
	}
	return &StaticOracle{roles: copied}
}

// Grant assigns or replaces the role of an address.
func (o *StaticOracle) Grant(addr model.Address, level Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.roles[addr] = level
}

// Revoke removes any role held by the address.
func (o *StaticOracle) Revoke(addr model.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.roles, addr)
}

// IsAuthorized reports whether the address holds any role.
func (o *StaticOracle) IsAuthorized(addr model.Address) bool {
	return o.RoleLevelOf(addr) > LevelNone
}

// RoleLevelOf returns the assigned role tier, LevelNone if unassigned.
func (o *StaticOracle) RoleLevelOf(addr model.Address) Level {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.roles[addr]
}

// HasCapability applies the default tier policy: minting is reserved for the
// primary bank, validator management, configuration and audit for regulators
// and above.
func (o *StaticOracle) HasCapability(addr model.Address, cap Capability) bool {
	level := o.RoleLevelOf(addr)
	switch cap {
	case CapabilityMint:
		return level >= LevelPrimaryBank
	case CapabilityManageValidators, CapabilityConfigure, CapabilityAudit:
		return level >= LevelRegulator
	default:
		return false
	}
}
