// Package admin defines the protocol's privileged configuration operations:
// role management, oracle feed wiring, collateral allow-listing and proxy
// implementation upgrades. Each operation carries its own idempotency check
// and proposal builder and is dispatched through govern.Context.
package admin

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/meridianlabs/govops/chain/evm"
)

// Minimal ABI subsets for the protocol surfaces the operations touch. Only the
// functions called here are declared; the contracts' business logic is an
// external collaborator.
const (
	priceOracleABIJSON = `[
	{"type":"function","name":"getFeed","stateMutability":"view","inputs":[{"name":"asset","type":"address"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"setFeed","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"feed","type":"address"}],"outputs":[]},
	{"type":"function","name":"getPrice","stateMutability":"view","inputs":[{"name":"asset","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

	riskEngineABIJSON = `[
	{"type":"function","name":"isCollateralAllowed","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"allowCollateral","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"}],"outputs":[]}
]`

	proxyAdminABIJSON = `[
	{"type":"function","name":"getProxyImplementation","stateMutability":"view","inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"upgrade","stateMutability":"nonpayable","inputs":[{"name":"proxy","type":"address"},{"name":"implementation","type":"address"}],"outputs":[]}
]`
)

var (
	// PriceOracleABI covers feed wiring and price sanity reads.
	PriceOracleABI = mustParseABI(priceOracleABIJSON)
	// RiskEngineABI covers the collateral allow-list.
	RiskEngineABI = mustParseABI(riskEngineABIJSON)
	// ProxyAdminABI covers implementation upgrades behind transparent proxies.
	ProxyAdminABI = mustParseABI(proxyAdminABIJSON)
	// AccessControlABI is re-exported for callers building role operations.
	AccessControlABI = evm.AccessControlABI
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return parsed
}

// Role names used across the protocol's access-controlled contracts.
var (
	OracleAdminRole  = evm.RoleID("ORACLE_ADMIN_ROLE")
	RiskAdminRole    = evm.RoleID("RISK_ADMIN_ROLE")
	UpgraderRole     = evm.RoleID("UPGRADER_ROLE")
	DefaultAdminRole = evm.DefaultAdminRole
)
