package govern_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/govern"
	"github.com/meridianlabs/govops/pkg/logger"
	"github.com/meridianlabs/govops/safeservice"
	"github.com/meridianlabs/govops/txbuild"
)

var (
	testAccount  = common.HexToAddress("0xA000000000000000000000000000000000000001")
	testContract = common.HexToAddress("0xB000000000000000000000000000000000000002")
	testRole     = evm.RoleID("ORACLE_ADMIN_ROLE")
)

// fakeOracle answers role reads from a fixed set of grants.
type fakeOracle struct {
	held map[common.Address]bool // contract -> acting account holds testRole
	err  error
}

func (o *fakeOracle) HasDirectPermission(_ context.Context, _, contract common.Address, _ common.Hash) (bool, error) {
	if o.err != nil {
		return false, o.err
	}

	return o.held[contract], nil
}

// fakeProposer records submissions and can be programmed to fail.
type fakeProposer struct {
	calls        int
	descriptions []string
	submitted    [][]safeservice.Proposal
	err          error
}

func (p *fakeProposer) ProposeBatch(_ context.Context, description string, proposals []safeservice.Proposal) (safeservice.Batch, error) {
	p.calls++
	if p.err != nil {
		return safeservice.Batch{}, p.err
	}
	p.descriptions = append(p.descriptions, description)
	p.submitted = append(p.submitted, proposals)

	return safeservice.Batch{
		RequestID:    "req-1",
		Description:  description,
		Transactions: proposals,
	}, nil
}

func grantProposal(t *testing.T) govern.ProposalBuilder {
	t.Helper()

	return func(context.Context) (safeservice.Proposal, error) {
		return txbuild.Call(testContract, evm.AccessControlABI, "grantRole", testRole, testAccount)
	}
}

func newTestContext(t *testing.T, cfg govern.ContextConfig) *govern.Context {
	t.Helper()

	if cfg.Account == (common.Address{}) {
		cfg.Account = testAccount
	}
	if cfg.Oracle == nil {
		cfg.Oracle = &fakeOracle{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Test(t)
	}

	c, err := govern.New(cfg)
	require.NoError(t, err)

	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     govern.ContextConfig
		wantErr string
	}{
		{
			name:    "missing account",
			cfg:     govern.ContextConfig{Oracle: &fakeOracle{}},
			wantErr: "acting account is required",
		},
		{
			name:    "missing oracle",
			cfg:     govern.ContextConfig{Account: testAccount},
			wantErr: "permission oracle is required",
		},
		{
			name:    "multisig mode without proposer",
			cfg:     govern.ContextConfig{Account: testAccount, Oracle: &fakeOracle{}, UseSafe: true},
			wantErr: "no batch proposer configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := govern.New(tt.cfg)

			var preErr *govern.PreconditionError
			require.ErrorAs(t, err, &preErr)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOutcome_Resolved(t *testing.T) {
	t.Parallel()

	assert.True(t, govern.OutcomeSkipped.Resolved())
	assert.True(t, govern.OutcomeExecutedDirectly.Resolved())
	// A queued outcome is never complete; execution still awaits signatures.
	assert.False(t, govern.OutcomeQueued.Resolved())
}

func TestContext_Dispatch_DirectMode(t *testing.T) {
	t.Parallel()

	t.Run("executes directly when permitted", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{})

		calls := 0
		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name: "grant-role",
			Do:   func(context.Context) error { calls++; return nil },
		})
		require.NoError(t, err)

		assert.Equal(t, govern.OutcomeExecutedDirectly, outcome)
		assert.True(t, outcome.Resolved())
		assert.Equal(t, 1, calls)
		assert.Zero(t, c.Pending())
	})

	t.Run("missing permission is a descriptive fatal error", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{})

		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name: "grant-role",
			Do: func(context.Context) error {
				return &govern.PermissionError{Account: testAccount, Contract: testContract, Role: testRole}
			},
			Propose: grantProposal(t),
		})
		require.ErrorContains(t, err, "multisig mode is disabled")
		require.ErrorContains(t, err, testAccount.Hex())
		assert.False(t, outcome.Resolved())
		assert.Zero(t, c.Pending())
	})

	t.Run("skips when the idempotency check is satisfied", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{})

		calls := 0
		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name:  "grant-role",
			Check: func(context.Context) (bool, error) { return true, nil },
			Do:    func(context.Context) error { calls++; return nil },
		})
		require.NoError(t, err)

		assert.Equal(t, govern.OutcomeSkipped, outcome)
		assert.Zero(t, calls)
	})

	t.Run("failed idempotency check is fatal", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{})

		_, err := c.Dispatch(t.Context(), govern.Op{
			Name:  "grant-role",
			Check: func(context.Context) (bool, error) { return false, errors.New("rpc down") },
			Do:    func(context.Context) error { return nil },
		})

		var readErr *govern.StateReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "grant-role", readErr.Op)
	})

	t.Run("operation without a direct action is fatal", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{})

		_, err := c.Dispatch(t.Context(), govern.Op{Name: "grant-role"})

		var preErr *govern.PreconditionError
		require.ErrorAs(t, err, &preErr)
	})
}

func TestContext_Dispatch_SafeMode(t *testing.T) {
	t.Parallel()

	t.Run("queues without invoking the direct operation when role is absent", func(t *testing.T) {
		t.Parallel()

		proposer := &fakeProposer{}
		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: proposer,
			Oracle:   &fakeOracle{held: map[common.Address]bool{}},
		})

		calls := 0
		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name:     "grant-role",
			Requires: &govern.RoleRequirement{Contract: testContract, Role: testRole},
			Do:       func(context.Context) error { calls++; return nil },
			Propose:  grantProposal(t),
		})
		require.NoError(t, err)

		assert.Equal(t, govern.OutcomeQueued, outcome)
		assert.False(t, outcome.Resolved())
		assert.Zero(t, calls, "direct operation must never be invoked")
		assert.Equal(t, 1, c.Pending())
		assert.Zero(t, proposer.calls, "queuing must not submit")
	})

	t.Run("executes directly when the oracle confirms the role", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: &fakeProposer{},
			Oracle:   &fakeOracle{held: map[common.Address]bool{testContract: true}},
		})

		calls := 0
		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name:     "grant-role",
			Requires: &govern.RoleRequirement{Contract: testContract, Role: testRole},
			Do:       func(context.Context) error { calls++; return nil },
			Propose:  grantProposal(t),
		})
		require.NoError(t, err)

		assert.Equal(t, govern.OutcomeExecutedDirectly, outcome)
		assert.Equal(t, 1, calls)
		assert.Zero(t, c.Pending())
	})

	t.Run("permission error from the direct operation queues", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: &fakeProposer{},
		})

		outcome, err := c.Dispatch(t.Context(), govern.Op{
			Name: "grant-role",
			Do: func(context.Context) error {
				return &govern.PermissionError{Account: testAccount, Contract: testContract, Role: testRole}
			},
			Propose: grantProposal(t),
		})
		require.NoError(t, err)

		assert.Equal(t, govern.OutcomeQueued, outcome)
		assert.Equal(t, 1, c.Pending())
	})

	t.Run("non-permission failure is fatal and queues nothing", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: &fakeProposer{},
		})

		_, err := c.Dispatch(t.Context(), govern.Op{
			Name:    "grant-role",
			Do:      func(context.Context) error { return errors.New("nonce too low") },
			Propose: grantProposal(t),
		})
		require.ErrorContains(t, err, "nonce too low")
		assert.Zero(t, c.Pending())
	})

	t.Run("queuing without a builder is fatal", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: &fakeProposer{},
			Oracle:   &fakeOracle{},
		})

		_, err := c.Dispatch(t.Context(), govern.Op{
			Name:     "grant-role",
			Requires: &govern.RoleRequirement{Contract: testContract, Role: testRole},
			Do:       func(context.Context) error { return nil },
		})

		var preErr *govern.PreconditionError
		require.ErrorAs(t, err, &preErr)
		assert.ErrorContains(t, err, "no proposal builder")
		assert.Zero(t, c.Pending())
	})

	t.Run("oracle read failure is fatal", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(t, govern.ContextConfig{
			UseSafe:  true,
			Proposer: &fakeProposer{},
			Oracle:   &fakeOracle{err: errors.New("connection reset")},
		})

		_, err := c.Dispatch(t.Context(), govern.Op{
			Name:     "grant-role",
			Requires: &govern.RoleRequirement{Contract: testContract, Role: testRole},
			Do:       func(context.Context) error { return nil },
			Propose:  grantProposal(t),
		})

		var readErr *govern.StateReadError
		require.ErrorAs(t, err, &readErr)
		assert.Zero(t, c.Pending())
	})
}
