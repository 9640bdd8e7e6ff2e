// Package safeservice submits batches of governance transactions to a Safe
// transaction service for multi-party approval.
package safeservice

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal is a single encoded call awaiting multisig approval. A Proposal is a
// value type; its identity is its content.
type Proposal struct {
	// To is the target contract address.
	To common.Address
	// Value is the native token amount sent with the call. Nil is treated as zero.
	Value *big.Int
	// Data is the ABI-encoded calldata.
	Data []byte
}

// Batch is an ordered collection of Proposals submitted to the transaction
// service as one unit scoped to a single Safe on a single chain.
type Batch struct {
	// RequestID is a client-generated identifier for the submission.
	RequestID string `json:"requestId"`
	// SafeAddress is the multisig the batch is proposed to.
	SafeAddress common.Address `json:"safeAddress"`
	// ChainID identifies the chain the batch executes on.
	ChainID uint64 `json:"chainId"`
	// Description is a human-readable summary shown to signers.
	Description string `json:"description"`
	// Transactions are the Proposals in insertion order.
	Transactions []Proposal `json:"transactions"`
}
