// Package testutils provides test doubles shared by package tests.
package testutils

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// FakeClient is an in-memory evm.OnchainClient. Behavior is programmed through
// the exported hook fields; unset hooks fall back to benign defaults.
type FakeClient struct {
	mu sync.Mutex

	// CallContractFn handles eth_call reads. Defaults to returning no data.
	CallContractFn func(msg ethereum.CallMsg) ([]byte, error)
	// CodeFn returns the contract code for an address. Defaults to a
	// non-empty placeholder so addresses read as deployed.
	CodeFn func(addr common.Address) ([]byte, error)
	// ReceiptFn returns the receipt for a sent transaction. Defaults to a
	// successful receipt in block 1.
	ReceiptFn func(txHash common.Hash) (*types.Receipt, error)

	sentTxs []*types.Transaction
}

// SentTxs returns the transactions submitted through SendTransaction in order.
func (f *FakeClient) SentTxs() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*types.Transaction(nil), f.sentTxs...)
}

func (f *FakeClient) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.CallContractFn != nil {
		return f.CallContractFn(msg)
	}

	return nil, nil
}

func (f *FakeClient) CodeAt(_ context.Context, addr common.Address, _ *big.Int) ([]byte, error) {
	if f.CodeFn != nil {
		return f.CodeFn(addr)
	}

	return []byte{0x60}, nil
}

func (f *FakeClient) PendingCodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	return f.CodeAt(ctx, addr, nil)
}

func (f *FakeClient) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *FakeClient) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, nil
}

func (f *FakeClient) NonceAt(context.Context, common.Address, *big.Int) (uint64, error) {
	return 0, nil
}

func (f *FakeClient) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *FakeClient) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *FakeClient) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21_000, nil
}

func (f *FakeClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentTxs = append(f.sentTxs, tx)

	return nil
}

func (f *FakeClient) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.ReceiptFn != nil {
		return f.ReceiptFn(txHash)
	}

	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      txHash,
		BlockNumber: big.NewInt(1),
	}, nil
}

func (f *FakeClient) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *FakeClient) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, ethereum.NotFound
}
