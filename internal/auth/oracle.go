// Package auth defines the boundary to the external authorization service.
package auth

import (
	"fmt"

	"github.com/goodnatureofminers/tierledger-backend/internal/ledger/model"
)

// Level is a role tier. Higher levels include every privilege of lower ones.
type Level uint8

const (
	LevelNone Level = iota
	LevelUser
	LevelEnterprise
	LevelValidator
	LevelRegulator
	LevelSecondaryBank
	LevelPrimaryBank
)

// String returns the role name used in logs and reports.
func (l Level) String() string {
	switch l {
	case LevelUser:
		return "user"
	case LevelEnterprise:
		return "enterprise"
	case LevelValidator:
		return "validator"
	case LevelRegulator:
		return "regulator"
	case LevelSecondaryBank:
		return "secondary_bank"
	case LevelPrimaryBank:
		return "primary_bank"
	default:
		return "none"
	}
}

// ParseLevel maps a role name back to its Level. Unknown names return
// LevelNone and an error.
func ParseLevel(name string) (Level, error) {
	for l := LevelUser; l <= LevelPrimaryBank; l++ {
		if l.String() == name {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("unknown role level %q", name)
}

// Capability gates a privileged operation.
type Capability string

var (
	// CapabilityMint allows creating new supply.
	CapabilityMint Capability = "mint"
	// CapabilityManageValidators allows validator add/remove/status changes.
	CapabilityManageValidators Capability = "manage_validators"
	// CapabilityConfigure allows runtime threshold and policy changes.
	CapabilityConfigure Capability = "configure"
	// CapabilityAudit allows investigating compliance cases.
	CapabilityAudit Capability = "audit"
)

// Oracle answers role queries for the ledger and registry. The live
// implementation is an external identity service; components depend only on
// this interface.
type Oracle interface {
	// IsAuthorized reports whether the address holds an active, valid role.
	IsAuthorized(addr model.Address) bool
	// RoleLevelOf returns the address's role tier, LevelNone if unknown.
	RoleLevelOf(addr model.Address) Level
	// HasCapability reports whether the address may perform a privileged
	// operation.
	HasCapability(addr model.Address, cap Capability) bool
}
