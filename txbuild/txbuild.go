// Package txbuild encodes governance calls into Proposals. Encoding is purely
// local, which lets Proposals be rebuilt deterministically at flush time
// instead of being cached stale at enqueue time.
package txbuild

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/meridianlabs/govops/safeservice"
)

// Call encodes a zero-value call to method on target into a Proposal.
func Call(target common.Address, contractABI abi.ABI, method string, args ...any) (safeservice.Proposal, error) {
	return CallWithValue(target, big.NewInt(0), contractABI, method, args...)
}

// CallWithValue encodes a call carrying a native token value.
func CallWithValue(target common.Address, value *big.Int, contractABI abi.ABI, method string, args ...any) (safeservice.Proposal, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return safeservice.Proposal{}, fmt.Errorf("failed to encode %s call to %s: %w", method, target.Hex(), err)
	}

	return safeservice.Proposal{
		To:    target,
		Value: value,
		Data:  data,
	}, nil
}
