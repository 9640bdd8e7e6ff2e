// Package evm provides the EVM chain handle used by governance operations:
// an on-chain client, the deployer transactor and transaction confirmation.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ConfirmFunc is a function that takes a transaction, waits for the
// transaction to be confirmed, and returns the block number and an error.
type ConfirmFunc func(tx *types.Transaction) (uint64, error)

// OnchainClient is an EVM chain client. The existing geth bind interfaces
// abstract the concrete client, so both ethclient and test fakes satisfy it.
type OnchainClient interface {
	bind.ContractBackend
	bind.DeployBackend

	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

// Chain represents an EVM chain.
type Chain struct {
	Selector uint64

	Client OnchainClient
	// DeployerKey signs direct governance transactions. The Sign function can
	// be abstract supporting a variety of key storage mechanisms.
	DeployerKey *bind.TransactOpts
	Confirm     ConfirmFunc
}

// ChainSelector returns the chain selector of the chain.
func (c Chain) ChainSelector() uint64 {
	return c.Selector
}

// ChainID returns the EVM chain ID for the chain's selector.
func (c Chain) ChainID() (uint64, error) {
	chainIDStr, err := chainsel.GetChainIDFromSelector(c.Selector)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID from selector %d: %w", c.Selector, err)
	}

	chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID %s: %w", chainIDStr, err)
	}

	return chainID, nil
}

// Name returns the name of the chain, or the selector when no name is known.
func (c Chain) Name() string {
	details, err := chainsel.GetChainDetailsByChainIDAndFamily(c.chainIDString(), chainsel.FamilyEVM)
	if err != nil || details.ChainName == "" {
		return strconv.FormatUint(c.Selector, 10)
	}

	return details.ChainName
}

// String returns chain name and selector "<name> (<selector>)".
func (c Chain) String() string {
	return fmt.Sprintf("%s (%d)", c.Name(), c.Selector)
}

func (c Chain) chainIDString() string {
	chainIDStr, err := chainsel.GetChainIDFromSelector(c.Selector)
	if err != nil {
		return ""
	}

	return chainIDStr
}
