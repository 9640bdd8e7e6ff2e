// Package govern is the governance operation dispatcher. For each requested
// mutation it decides whether to execute directly under the acting account's
// authority or to queue the mutation into a batch proposal for an external
// approval workflow, and keeps the whole run idempotent and safely
// re-runnable: on-chain state persists between runs and humans may approve
// pending batches out of band.
package govern

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meridianlabs/govops/pkg/logger"
	"github.com/meridianlabs/govops/safeservice"
)

// ProposalBuilder produces the Proposal for a mutation. Builders are stored in
// the queue and invoked at flush time, so the Proposal reflects the latest
// on-chain state rather than the state at enqueue time.
type ProposalBuilder func(ctx context.Context) (safeservice.Proposal, error)

// BatchProposer submits the queue's contents as one named batch to an
// external approval service. Implemented by safeservice.Client.
type BatchProposer interface {
	ProposeBatch(ctx context.Context, description string, proposals []safeservice.Proposal) (safeservice.Batch, error)
}

// PermissionOracle is a read-only check of whether an account holds a required
// on-chain role on a target contract. Implemented by evm.Chain.
type PermissionOracle interface {
	HasDirectPermission(ctx context.Context, account, contract common.Address, role common.Hash) (bool, error)
}

// ContextConfig holds the settings to initialize a Context.
type ContextConfig struct {
	// Required: Account is the acting (deployer) account identity.
	Account common.Address
	// Required: Oracle answers role reads for permission checks.
	Oracle PermissionOracle
	// UseSafe enables multisig mode: operations the account cannot execute
	// directly are queued and flushed to the approval service.
	UseSafe bool
	// Required when UseSafe: Proposer submits queued batches.
	Proposer BatchProposer
	// Optional: ArtifactsDir, when set, receives a YAML artifact of every
	// batch before submission.
	ArtifactsDir string
	// Optional: Logger defaults to a runtime logger.
	Logger logger.Logger
}

// Context carries the dispatcher's accumulated state for one run: the
// configuration, fixed after New, and the per-run transaction queue. It is an
// explicit value passed into every call rather than a module-level singleton,
// so multiple deployment targets or parallel test runs do not interfere.
type Context struct {
	lggr         logger.Logger
	account      common.Address
	useSafe      bool
	oracle       PermissionOracle
	proposer     BatchProposer
	artifactsDir string

	queue []queuedProposal
}

type queuedProposal struct {
	name  string
	build ProposalBuilder
}

// New validates cfg and returns a fresh Context with an empty queue.
func New(cfg ContextConfig) (*Context, error) {
	if cfg.Account == (common.Address{}) {
		return nil, &PreconditionError{Reason: "acting account is required"}
	}
	if cfg.Oracle == nil {
		return nil, &PreconditionError{Reason: "permission oracle is required"}
	}
	if cfg.UseSafe && cfg.Proposer == nil {
		return nil, &PreconditionError{Reason: "multisig mode enabled but no batch proposer configured"}
	}

	lggr := cfg.Logger
	if lggr == nil {
		var err error
		lggr, err = logger.New()
		if err != nil {
			return nil, err
		}
	}

	return &Context{
		lggr:         lggr.Named("govern"),
		account:      cfg.Account,
		useSafe:      cfg.UseSafe,
		oracle:       cfg.Oracle,
		proposer:     cfg.Proposer,
		artifactsDir: cfg.ArtifactsDir,
	}, nil
}

// Account returns the acting account identity.
func (c *Context) Account() common.Address { return c.account }

// UseSafe reports whether multisig mode is enabled.
func (c *Context) UseSafe() bool { return c.useSafe }

// Pending returns the number of proposals currently queued.
func (c *Context) Pending() int { return len(c.queue) }
