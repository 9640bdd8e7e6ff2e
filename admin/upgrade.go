package admin

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/govern"
	"github.com/meridianlabs/govops/safeservice"
	"github.com/meridianlabs/govops/txbuild"
)

// UpgradeImplementation points proxy at implementation through proxyAdmin.
// The implementation contract must already be deployed; deployment itself
// needs no governance since any account can deploy code.
func UpgradeImplementation(chain evm.Chain, proxyAdmin, proxy, implementation common.Address) govern.Op {
	return govern.Op{
		Name: fmt.Sprintf("upgrade %s to %s via %s", proxy.Hex(), implementation.Hex(), proxyAdmin.Hex()),
		Check: func(ctx context.Context) (bool, error) {
			current, err := read[common.Address](ctx, chain, proxyAdmin, ProxyAdminABI, "getProxyImplementation", proxy)
			if err != nil {
				return false, err
			}

			return current == implementation, nil
		},
		Requires: &govern.RoleRequirement{Contract: proxyAdmin, Role: UpgraderRole},
		Do: func(ctx context.Context) error {
			if err := requireDirectPermission(ctx, chain, proxyAdmin, UpgraderRole); err != nil {
				return err
			}

			return transact(ctx, chain, proxyAdmin, ProxyAdminABI, "upgrade", proxy, implementation)
		},
		Propose: func(context.Context) (safeservice.Proposal, error) {
			return txbuild.Call(proxyAdmin, ProxyAdminABI, "upgrade", proxy, implementation)
		},
	}
}
