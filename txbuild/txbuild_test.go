package txbuild_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/txbuild"
)

func TestCall(t *testing.T) {
	t.Parallel()

	var (
		target  = common.HexToAddress("0x6000000000000000000000000000000000000006")
		grantee = common.HexToAddress("0x7000000000000000000000000000000000000007")
		role    = evm.RoleID("ORACLE_ADMIN_ROLE")
	)

	t.Run("encodes a grantRole call", func(t *testing.T) {
		t.Parallel()

		proposal, err := txbuild.Call(target, evm.AccessControlABI, "grantRole", role, grantee)
		require.NoError(t, err)

		assert.Equal(t, target, proposal.To)
		assert.Zero(t, proposal.Value.Sign())

		want, err := evm.AccessControlABI.Pack("grantRole", role, grantee)
		require.NoError(t, err)
		assert.Equal(t, want, proposal.Data)
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		t.Parallel()

		a, err := txbuild.Call(target, evm.AccessControlABI, "revokeRole", role, grantee)
		require.NoError(t, err)
		b, err := txbuild.Call(target, evm.AccessControlABI, "revokeRole", role, grantee)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("carries a native value", func(t *testing.T) {
		t.Parallel()

		proposal, err := txbuild.CallWithValue(target, big.NewInt(42), evm.AccessControlABI, "grantRole", role, grantee)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(42), proposal.Value)
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()

		_, err := txbuild.Call(target, evm.AccessControlABI, "mint", grantee)
		require.ErrorContains(t, err, "failed to encode mint call")
	})

	t.Run("argument type mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := txbuild.Call(target, evm.AccessControlABI, "grantRole", "not-a-role", grantee)
		require.Error(t, err)
	})
}
