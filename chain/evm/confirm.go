package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

const defaultConfirmTick = 1 * time.Second

// ConfirmFuncGeth returns a ConfirmFunc that polls the client for the
// transaction receipt until it is mined or ctx expires. A reverted receipt is
// reported as an error with the transaction hash.
func ConfirmFuncGeth(ctx context.Context, client OnchainClient, waitMinedTimeout time.Duration) ConfirmFunc {
	return func(tx *types.Transaction) (uint64, error) {
		if tx == nil {
			return 0, errors.New("tx was nil, nothing to confirm")
		}

		ctxTimeout, cancel := context.WithTimeout(ctx, waitMinedTimeout)
		defer cancel()

		receipt, err := retry.DoWithData(
			func() (*types.Receipt, error) {
				return client.TransactionReceipt(ctxTimeout, tx.Hash())
			},
			retry.Context(ctxTimeout),
			retry.Attempts(0), // bounded by ctxTimeout
			retry.Delay(defaultConfirmTick),
			retry.DelayType(retry.FixedDelay),
			retry.RetryIf(func(err error) bool {
				return errors.Is(err, ethereum.NotFound)
			}),
		)
		if err != nil {
			return 0, fmt.Errorf("tx %s failed to confirm: %w", tx.Hash().Hex(), err)
		}
		if receipt == nil {
			return 0, fmt.Errorf("receipt was nil for tx %s", tx.Hash().Hex())
		}
		if receipt.Status == types.ReceiptStatusFailed {
			return receipt.BlockNumber.Uint64(), fmt.Errorf("tx %s reverted in block %d",
				tx.Hash().Hex(), receipt.BlockNumber.Uint64())
		}

		return receipt.BlockNumber.Uint64(), nil
	}
}
