package safeservice

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds the settings required to propose batches to a Safe transaction
// service. An operator-supplied override must replace all three fields
// consistently, never partially; Validate enforces this.
type Config struct {
	// SafeAddress is the address of the multisig that will execute the batch.
	SafeAddress common.Address
	// ChainID is the chain the Safe is deployed on.
	ChainID uint64
	// TxServiceURL is the base URL of the transaction service endpoint.
	TxServiceURL string
}

// Validate checks that the configuration is complete.
func (c Config) Validate() error {
	if c.SafeAddress == (common.Address{}) {
		return errors.New("safe address is required")
	}
	if c.ChainID == 0 {
		return errors.New("chain ID is required")
	}
	if c.TxServiceURL == "" {
		return errors.New("transaction service URL is required")
	}

	return nil
}

// IsZero reports whether no field of the configuration has been set.
func (c Config) IsZero() bool {
	return c.SafeAddress == (common.Address{}) && c.ChainID == 0 && c.TxServiceURL == ""
}

// defaultTxServiceURLs maps chain IDs to the canonical hosted transaction
// service for that chain.
var defaultTxServiceURLs = map[uint64]string{
	1:        "https://safe-transaction-mainnet.safe.global",
	10:       "https://safe-transaction-optimism.safe.global",
	100:      "https://safe-transaction-gnosis-chain.safe.global",
	137:      "https://safe-transaction-polygon.safe.global",
	8453:     "https://safe-transaction-base.safe.global",
	42161:    "https://safe-transaction-arbitrum.safe.global",
	43114:    "https://safe-transaction-avalanche.safe.global",
	11155111: "https://safe-transaction-sepolia.safe.global",
}

// DefaultConfig returns a Config pointed at the hosted transaction service for
// the given chain. It returns an error for chains without a hosted service, in
// which case the operator must supply a full override.
func DefaultConfig(safeAddress common.Address, chainID uint64) (Config, error) {
	u, ok := defaultTxServiceURLs[chainID]
	if !ok {
		return Config{}, fmt.Errorf("no default transaction service for chain ID %d", chainID)
	}

	return Config{
		SafeAddress:  safeAddress,
		ChainID:      chainID,
		TxServiceURL: u,
	}, nil
}
