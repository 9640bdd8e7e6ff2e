package govern

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PermissionError reports that direct execution was blocked by a missing role
// on the target contract. It is recoverable by queuing; the dispatcher catches
// it and converts the operation to a proposal. Classification is structural
// via errors.As, never by matching error message substrings.
type PermissionError struct {
	// Account is the acting account that lacks the role.
	Account common.Address
	// Contract is the access-controlled target.
	Contract common.Address
	// Role is the required role identifier.
	Role common.Hash
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("account %s does not hold role %s on %s",
		e.Account.Hex(), e.Role.Hex(), e.Contract.Hex())
}

// PreconditionError reports that the dispatcher cannot proceed at all: queuing
// is required but no proposal builder was supplied, or multisig configuration
// is absent. It is fatal.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "governance precondition missing: " + e.Reason
}

// StateReadError reports that an idempotency or permission read failed for an
// unrecognized reason. It is fatal: without the read, the safe next action
// cannot be determined.
type StateReadError struct {
	Op  string
	Err error
}

func (e *StateReadError) Error() string {
	return fmt.Sprintf("state read for operation %q failed: %v", e.Op, e.Err)
}

func (e *StateReadError) Unwrap() error { return e.Err }
