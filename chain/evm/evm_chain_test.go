package evm_test

import (
	"testing"

	chain_selectors "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/govops/chain/evm"
)

func TestChain_ChainInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		selector    uint64
		wantName    string
		wantString  string
		wantChainID uint64
	}{
		{
			name:        "returns correct info",
			selector:    chain_selectors.ETHEREUM_MAINNET.Selector,
			wantString:  "ethereum-mainnet (5009297550715157269)",
			wantName:    chain_selectors.ETHEREUM_MAINNET.Name,
			wantChainID: 1,
		},
		{
			name:        "unknown selector falls back to the selector",
			selector:    999,
			wantString:  "999 (999)",
			wantName:    "999",
			wantChainID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := evm.Chain{
				Selector: tt.selector,
			}
			assert.Equal(t, tt.selector, c.ChainSelector())
			assert.Equal(t, tt.wantString, c.String())
			assert.Equal(t, tt.wantName, c.Name())

			chainID, err := c.ChainID()
			if tt.wantChainID == 0 {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantChainID, chainID)
			}
		})
	}
}
