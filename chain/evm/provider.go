package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RPCChainConfig holds the configuration to construct a Chain connected to an
// EVM node via RPC.
type RPCChainConfig struct {
	// Required: The RPC endpoint of the EVM node.
	RPCURL string
	// Required: The deployer transactor used for direct execution.
	DeployerKey *bind.TransactOpts
	// Optional: How long to wait for a transaction to be mined before giving
	// up. Defaults to 5 minutes.
	WaitMinedTimeout time.Duration
}

func (c RPCChainConfig) validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	if c.DeployerKey == nil {
		return errors.New("deployer key is required")
	}

	return nil
}

// NewRPCChain dials the configured RPC endpoint and returns a Chain for the
// given selector.
func NewRPCChain(ctx context.Context, selector uint64, cfg RPCChainConfig) (Chain, error) {
	if err := cfg.validate(); err != nil {
		return Chain{}, fmt.Errorf("failed to validate chain config: %w", err)
	}

	timeout := cfg.WaitMinedTimeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return Chain{}, fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}

	return Chain{
		Selector:    selector,
		Client:      client,
		DeployerKey: cfg.DeployerKey,
		Confirm:     ConfirmFuncGeth(ctx, client, timeout),
	}, nil
}
