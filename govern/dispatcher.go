package govern

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RoleRequirement names the on-chain role the acting account needs to execute
// an operation directly.
type RoleRequirement struct {
	Contract common.Address
	Role     common.Hash
}

// Op is one privileged, state-mutating call against an access-controlled
// contract function.
type Op struct {
	// Name identifies the operation in logs and errors.
	Name string

	// Check reports whether the operation's effect is already present on
	// chain, so a re-run after partial human approval skips completed work.
	// Optional; a nil Check never skips.
	Check func(ctx context.Context) (bool, error)

	// Requires is the role needed for direct execution. When set and multisig
	// mode is on, the dispatcher consults the permission oracle before
	// attempting Do, so an unpermitted account queues without ever invoking
	// the direct operation.
	Requires *RoleRequirement

	// Do performs the mutation directly. It may itself detect a missing
	// permission and return a *PermissionError, which queues instead of
	// failing.
	Do func(ctx context.Context) error

	// Propose builds the Proposal for the same mutation. Required only when
	// queuing is needed.
	Propose ProposalBuilder
}

// Dispatch runs the idempotency check for op and then TryOrQueue. It returns
// exactly one of {OutcomeSkipped, OutcomeExecutedDirectly, OutcomeQueued} or a
// fatal error, and logs one status line either way.
func (c *Context) Dispatch(ctx context.Context, op Op) (Outcome, error) {
	if op.Do == nil {
		return outcomeUnset, &PreconditionError{Reason: fmt.Sprintf("operation %q has no direct action", op.Name)}
	}

	if op.Check != nil {
		done, err := op.Check(ctx)
		if err != nil {
			return outcomeUnset, &StateReadError{Op: op.Name, Err: err}
		}
		if done {
			c.lggr.Infow("Skipping operation, already satisfied", "op", op.Name)

			return OutcomeSkipped, nil
		}
	}

	return c.TryOrQueue(ctx, op)
}

// TryOrQueue attempts direct execution of op, falling back to queuing a
// Proposal when direct execution is unavailable or not permitted.
//
// With multisig mode off, direct execution is the only path: any failure,
// including a missing permission, propagates as a descriptive fatal error.
// With multisig mode on, a missing permission (reported by the oracle or by
// the direct operation itself) queues the Proposal; any other failure
// propagates and the operation is neither executed nor queued.
func (c *Context) TryOrQueue(ctx context.Context, op Op) (Outcome, error) {
	if !c.useSafe {
		if err := op.Do(ctx); err != nil {
			var permErr *PermissionError
			if errors.As(err, &permErr) {
				return outcomeUnset, fmt.Errorf(
					"operation %q: %w (multisig mode is disabled; grant the role or enable the safe)",
					op.Name, err)
			}

			return outcomeUnset, fmt.Errorf("operation %q failed: %w", op.Name, err)
		}
		c.lggr.Infow("Executed operation directly", "op", op.Name)

		return OutcomeExecutedDirectly, nil
	}

	permitted := true
	if op.Requires != nil {
		held, err := c.oracle.HasDirectPermission(ctx, c.account, op.Requires.Contract, op.Requires.Role)
		if err != nil {
			return outcomeUnset, &StateReadError{Op: op.Name, Err: err}
		}
		permitted = held
	}

	if permitted {
		err := op.Do(ctx)
		if err == nil {
			c.lggr.Infow("Executed operation directly", "op", op.Name)

			return OutcomeExecutedDirectly, nil
		}

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			return outcomeUnset, fmt.Errorf("operation %q failed: %w", op.Name, err)
		}
		// Denied after all; fall through to queuing.
	}

	if err := c.QueueTransaction(op.Name, op.Propose); err != nil {
		return outcomeUnset, err
	}

	return OutcomeQueued, nil
}

// QueueTransaction appends a proposal builder to the queue. The builder runs
// at flush time so the Proposal reflects the latest state.
func (c *Context) QueueTransaction(name string, build ProposalBuilder) error {
	if build == nil {
		return &PreconditionError{Reason: fmt.Sprintf("operation %q must be queued but has no proposal builder", name)}
	}

	c.queue = append(c.queue, queuedProposal{name: name, build: build})
	c.lggr.Infow("Queued operation for multisig approval", "op", name, "queued", len(c.queue))

	return nil
}
