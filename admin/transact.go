package admin

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/govern"
)

// transact sends one direct transaction to target and waits for confirmation.
func transact(ctx context.Context, chain evm.Chain, target common.Address, contractABI abi.ABI, method string, args ...any) error {
	bound := bind.NewBoundContract(target, contractABI, chain.Client, chain.Client, chain.Client)

	opts := *chain.DeployerKey
	opts.Context = ctx

	tx, err := bound.Transact(&opts, method, args...)
	if err != nil {
		return fmt.Errorf("failed to send %s to %s: %w", method, target.Hex(), err)
	}

	if _, err = chain.Confirm(tx); err != nil {
		return err
	}

	return nil
}

// read performs a view call on target and decodes a single result into out.
func read[T any](ctx context.Context, chain evm.Chain, target common.Address, contractABI abi.ABI, method string, args ...any) (T, error) {
	var zero T

	bound := bind.NewBoundContract(target, contractABI, chain.Client, chain.Client, chain.Client)

	var results []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &results, method, args...); err != nil {
		return zero, fmt.Errorf("%s read on %s failed: %w", method, target.Hex(), err)
	}
	if len(results) != 1 {
		return zero, fmt.Errorf("%s read on %s returned %d values, want 1", method, target.Hex(), len(results))
	}

	typed, ok := results[0].(T)
	if !ok {
		return zero, fmt.Errorf("unexpected %s result type %T from %s", method, results[0], target.Hex())
	}

	return typed, nil
}

// requireDirectPermission re-checks that the deployer holds role on contract
// and reports a structured PermissionError when it does not, so the
// dispatcher can convert the denial into a queued proposal.
func requireDirectPermission(ctx context.Context, chain evm.Chain, contract common.Address, role common.Hash) error {
	account := chain.DeployerKey.From
	held, err := chain.HasDirectPermission(ctx, account, contract, role)
	if err != nil {
		return err
	}
	if !held {
		return &govern.PermissionError{Account: account, Contract: contract, Role: role}
	}

	return nil
}
