package admin

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/govern"
	"github.com/meridianlabs/govops/safeservice"
	"github.com/meridianlabs/govops/txbuild"
)

// WireFeed points the price oracle's feed for asset at feed. On the direct
// execution path the freshly wired feed is sanity-read afterwards; a zero
// price means the feed is miswired and the operation fails. The sanity read
// cannot run on the queued path since the wiring only takes effect once the
// batch is approved.
func WireFeed(chain evm.Chain, oracle, asset, feed common.Address) govern.Op {
	return govern.Op{
		Name: fmt.Sprintf("wire-feed %s -> %s on %s", asset.Hex(), feed.Hex(), oracle.Hex()),
		Check: func(ctx context.Context) (bool, error) {
			current, err := read[common.Address](ctx, chain, oracle, PriceOracleABI, "getFeed", asset)
			if err != nil {
				return false, err
			}

			return current == feed, nil
		},
		Requires: &govern.RoleRequirement{Contract: oracle, Role: OracleAdminRole},
		Do: func(ctx context.Context) error {
			if err := requireDirectPermission(ctx, chain, oracle, OracleAdminRole); err != nil {
				return err
			}
			if err := transact(ctx, chain, oracle, PriceOracleABI, "setFeed", asset, feed); err != nil {
				return err
			}

			price, err := read[*big.Int](ctx, chain, oracle, PriceOracleABI, "getPrice", asset)
			if err != nil {
				return fmt.Errorf("post-wire price read for %s failed: %w", asset.Hex(), err)
			}
			if price.Sign() <= 0 {
				return fmt.Errorf("feed %s for asset %s reports a non-positive price", feed.Hex(), asset.Hex())
			}

			return nil
		},
		Propose: func(context.Context) (safeservice.Proposal, error) {
			return txbuild.Call(oracle, PriceOracleABI, "setFeed", asset, feed)
		},
	}
}
