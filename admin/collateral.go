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

// AllowCollateral adds token to the risk engine's collateral allow-list.
func AllowCollateral(chain evm.Chain, riskEngine, token common.Address) govern.Op {
	return govern.Op{
		Name: fmt.Sprintf("allow-collateral %s on %s", token.Hex(), riskEngine.Hex()),
		Check: func(ctx context.Context) (bool, error) {
			return read[bool](ctx, chain, riskEngine, RiskEngineABI, "isCollateralAllowed", token)
		},
		Requires: &govern.RoleRequirement{Contract: riskEngine, Role: RiskAdminRole},
		Do: func(ctx context.Context) error {
			if err := requireDirectPermission(ctx, chain, riskEngine, RiskAdminRole); err != nil {
				return err
			}

			return transact(ctx, chain, riskEngine, RiskEngineABI, "allowCollateral", token)
		},
		Propose: func(context.Context) (safeservice.Proposal, error) {
			return txbuild.Call(riskEngine, RiskEngineABI, "allowCollateral", token)
		},
	}
}
