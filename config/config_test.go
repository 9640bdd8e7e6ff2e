package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/govops/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "govops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("full config with safe override", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
rpc_url: https://eth.example.com
use_safe: true
safe:
  address: "0x1111111111111111111111111111111111111111"
  chain_id: 1
  tx_service_url: https://safe-transaction-mainnet.safe.global
address_book: ./addresses.yaml
artifacts_dir: ./artifacts
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, uint64(5009297550715157269), cfg.ChainSelector)
		assert.True(t, cfg.UseSafe)

		safeCfg := cfg.SafeConfig()
		assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), safeCfg.SafeAddress)
		assert.Equal(t, uint64(1), safeCfg.ChainID)
		assert.Equal(t, "https://safe-transaction-mainnet.safe.global", safeCfg.TxServiceURL)
	})

	t.Run("direct mode needs no safe block", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
rpc_url: https://eth.example.com
address_book: ./addresses.yaml
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.UseSafe)
	})

	t.Run("partial safe override is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
rpc_url: https://eth.example.com
use_safe: true
safe:
  address: "0x1111111111111111111111111111111111111111"
  chain_id: 1
address_book: ./addresses.yaml
`)

		_, err := config.Load(path)
		require.ErrorContains(t, err, "must set address, chain_id and tx_service_url together")
	})

	t.Run("safe mode without safe block is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
rpc_url: https://eth.example.com
use_safe: true
address_book: ./addresses.yaml
`)

		_, err := config.Load(path)
		require.ErrorContains(t, err, "no safe configuration was provided")
	})

	t.Run("missing rpc url is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
address_book: ./addresses.yaml
`)

		_, err := config.Load(path)
		require.ErrorContains(t, err, "rpc_url is required")
	})

	t.Run("invalid safe address is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
chain_selector: 5009297550715157269
rpc_url: https://eth.example.com
use_safe: true
safe:
  address: "not-an-address"
  chain_id: 1
  tx_service_url: https://safe-transaction-mainnet.safe.global
address_book: ./addresses.yaml
`)

		_, err := config.Load(path)
		require.ErrorContains(t, err, "is not a valid address")
	})
}
