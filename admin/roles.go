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

// roleAdmin reads the admin role that governs grant and revoke for role on
// contract.
func roleAdmin(ctx context.Context, chain evm.Chain, contract common.Address, role common.Hash) (common.Hash, error) {
	admin, err := read[[32]byte](ctx, chain, contract, AccessControlABI, "getRoleAdmin", role)
	if err != nil {
		return common.Hash{}, err
	}

	return common.Hash(admin), nil
}

// EnsureRole grants role to grantee on contract unless grantee already holds
// it. Granting requires the role's admin role, usually DEFAULT_ADMIN_ROLE.
func EnsureRole(chain evm.Chain, contract common.Address, role common.Hash, grantee common.Address) govern.Op {
	return govern.Op{
		Name: fmt.Sprintf("grant-role %s to %s on %s", role.Hex(), grantee.Hex(), contract.Hex()),
		Check: func(ctx context.Context) (bool, error) {
			return chain.HasDirectPermission(ctx, grantee, contract, role)
		},
		Requires: &govern.RoleRequirement{Contract: contract, Role: DefaultAdminRole},
		Do: func(ctx context.Context) error {
			admin, err := roleAdmin(ctx, chain, contract, role)
			if err != nil {
				return err
			}
			if err = requireDirectPermission(ctx, chain, contract, admin); err != nil {
				return err
			}

			return transact(ctx, chain, contract, AccessControlABI, "grantRole", role, grantee)
		},
		Propose: func(context.Context) (safeservice.Proposal, error) {
			return txbuild.Call(contract, AccessControlABI, "grantRole", role, grantee)
		},
	}
}

// RevokeRole removes role from holder on contract. Already-absent roles skip.
func RevokeRole(chain evm.Chain, contract common.Address, role common.Hash, holder common.Address) govern.Op {
	return govern.Op{
		Name: fmt.Sprintf("revoke-role %s from %s on %s", role.Hex(), holder.Hex(), contract.Hex()),
		Check: func(ctx context.Context) (bool, error) {
			held, err := chain.HasDirectPermission(ctx, holder, contract, role)
			if err != nil {
				return false, err
			}

			return !held, nil
		},
		Requires: &govern.RoleRequirement{Contract: contract, Role: DefaultAdminRole},
		Do: func(ctx context.Context) error {
			admin, err := roleAdmin(ctx, chain, contract, role)
			if err != nil {
				return err
			}
			if err = requireDirectPermission(ctx, chain, contract, admin); err != nil {
				return err
			}

			return transact(ctx, chain, contract, AccessControlABI, "revokeRole", role, holder)
		},
		Propose: func(context.Context) (safeservice.Proposal, error) {
			return txbuild.Call(contract, AccessControlABI, "revokeRole", role, holder)
		},
	}
}
