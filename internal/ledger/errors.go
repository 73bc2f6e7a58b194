// Package ledger defines the error kinds shared by the ledger subsystems.
// Callers branch on cause with errors.Is; operations wrap these with context.
package ledger

import "errors"

var (
	// ErrUnauthorized is returned when the caller holds no valid role or
	// lacks the capability required by a privileged operation.
	ErrUnauthorized = errors.New("caller not authorized")
	// ErrRecipientNotAuthorized is returned when a transfer or mint
	// recipient fails the authorization check.
	ErrRecipientNotAuthorized = errors.New("recipient not authorized")

	// ErrEmptyInputs is returned when a transfer names no inputs.
	ErrEmptyInputs = errors.New("transfer has no inputs")
	// ErrEmptyOutputs is returned when a transfer names no outputs.
	ErrEmptyOutputs = errors.New("transfer has no outputs")
	// ErrUnknownSource is returned when an input references an unrecorded
	// transaction or an out-of-range output index.
	ErrUnknownSource = errors.New("unknown input source")
	// ErrAlreadySpent is returned when an input output was spent before.
	ErrAlreadySpent = errors.New("output already spent")
	// ErrNotOwner is returned when an input output belongs to someone else.
	ErrNotOwner = errors.New("caller does not own output")
	// ErrStillLocked is returned when an input output is time-locked.
	ErrStillLocked = errors.New("output still locked")
	// ErrValueExceedsInput is returned when outputs total more than inputs.
	ErrValueExceedsInput = errors.New("output value exceeds input value")

	// ErrSupplyExceeded is returned when a mint would pass the supply cap.
	ErrSupplyExceeded = errors.New("max supply exceeded")

	// ErrAlreadyInvestigated is returned on repeat case investigation.
	ErrAlreadyInvestigated = errors.New("case already investigated")
	// ErrUnknownCase is returned when a case id resolves to nothing.
	ErrUnknownCase = errors.New("unknown case")
)
