package evm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNotConfigured signals a role read against an address with no contract
// code: the target is not deployed or not wired yet. Callers map it to "state
// absent", never to a fatal failure.
var ErrNotConfigured = errors.New("contract not configured")

// accessControlABIJSON is the subset of the OpenZeppelin AccessControl
// interface consumed by governance operations.
const accessControlABIJSON = `[
	{"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getRoleAdmin","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"grantRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"revokeRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]}
]`

// AccessControlABI is the parsed AccessControl interface. It is shared by the
// permission oracle and by operations that grant or revoke roles.
var AccessControlABI = mustParseABI(accessControlABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return parsed
}

// DefaultAdminRole is the AccessControl DEFAULT_ADMIN_ROLE (bytes32 zero).
var DefaultAdminRole = common.Hash{}

// RoleID returns the role identifier for a named role, keccak256 of the role
// name, matching the Solidity convention keccak256("ORACLE_ADMIN_ROLE").
func RoleID(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(name))
}

// HasDirectPermission reports whether account holds the given role on the
// target contract. It is a pure read.
//
// A target with no contract code (the contract is not deployed or not wired
// yet) reads as permission absent rather than failing, since that state is
// expected mid-deployment. Any other read failure is returned as an error;
// callers must treat it as fatal because safety cannot be determined.
func (c Chain) HasDirectPermission(ctx context.Context, account, contract common.Address, role common.Hash) (bool, error) {
	data, err := AccessControlABI.Pack("hasRole", role, account)
	if err != nil {
		return false, fmt.Errorf("failed to encode hasRole call: %w", err)
	}

	out, err := c.Client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return false, fmt.Errorf("hasRole read on %s failed: %w", contract.Hex(), err)
	}

	if len(out) == 0 {
		err = c.classifyEmptyRead(ctx, contract)
		if errors.Is(err, ErrNotConfigured) {
			// Not deployed yet. Treated as permission absent, not fatal.
			return false, nil
		}

		return false, fmt.Errorf("hasRole read on %s: %w", contract.Hex(), err)
	}

	results, err := AccessControlABI.Unpack("hasRole", out)
	if err != nil {
		return false, fmt.Errorf("failed to decode hasRole result from %s: %w", contract.Hex(), err)
	}

	held, ok := results[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected hasRole result type %T from %s", results[0], contract.Hex())
	}

	return held, nil
}

// classifyEmptyRead distinguishes an undeployed target from a deployed
// contract that returned no data. The former is ErrNotConfigured.
func (c Chain) classifyEmptyRead(ctx context.Context, contract common.Address) error {
	code, err := c.Client.CodeAt(ctx, contract, nil)
	if err != nil {
		return fmt.Errorf("code read failed: %w", err)
	}
	if len(code) == 0 {
		return ErrNotConfigured
	}

	return errors.New("call returned no data")
}
