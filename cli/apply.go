package cli

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/config"
	"github.com/meridianlabs/govops/govern"
	"github.com/meridianlabs/govops/pkg/logger"
	"github.com/meridianlabs/govops/registry"
	"github.com/meridianlabs/govops/safeservice"
)

// Exit codes for the apply command. PendingGovernance is distinct from
// failure so callers can poll: re-run after approval until exit 0.
const (
	ExitSuccess           = 0
	ExitFailed            = 1
	ExitPendingGovernance = 10
)

const deployerKeyEnvVar = "GOVOPS_DEPLOYER_KEY"

// Commands returns the govops root command.
func Commands(lggr logger.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "govops",
		Short: "Apply privileged protocol operations directly or via governance",
	}
	rootCmd.AddCommand(applyCmd(lggr))

	return rootCmd
}

func applyCmd(lggr logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Apply a governance operation plan",
		Long: `Apply executes each operation in the plan: operations the deployer key can
perform run directly on chain, the rest are queued and submitted as one batch
for multisig approval. Exits 0 when everything is final on chain, 10 when a
batch is awaiting approval (re-run after approval), 1 on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runApply(cmd.Context(), lggr, configPath, args[0])
			if err != nil {
				lggr.Errorw("Apply failed", "error", err)
				os.Exit(ExitFailed)
			}
			switch result {
			case govern.ResultPendingGovernance:
				os.Exit(ExitPendingGovernance)
			case govern.ResultFailed:
				os.Exit(ExitFailed)
			case govern.ResultSuccess:
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "govops.yaml", "path to the govops config file")

	return cmd
}

func runApply(ctx context.Context, lggr logger.Logger, configPath, planPath string) (govern.Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return govern.ResultFailed, err
	}

	plan, err := LoadPlan(planPath)
	if err != nil {
		return govern.ResultFailed, err
	}

	deployerKey, err := deployerKeyFromEnv(cfg.ChainSelector)
	if err != nil {
		return govern.ResultFailed, err
	}

	chain, err := evm.NewRPCChain(ctx, cfg.ChainSelector, evm.RPCChainConfig{
		RPCURL:      cfg.RPCURL,
		DeployerKey: deployerKey,
	})
	if err != nil {
		return govern.ResultFailed, err
	}

	book, err := registry.LoadFile(cfg.AddressBookPath)
	if err != nil {
		return govern.ResultFailed, err
	}

	var proposer govern.BatchProposer
	if cfg.UseSafe {
		client, cerr := safeservice.NewClient(cfg.SafeConfig())
		if cerr != nil {
			return govern.ResultFailed, cerr
		}
		proposer = client
	}

	govCtx, err := govern.New(govern.ContextConfig{
		Account:      deployerKey.From,
		Oracle:       chain,
		UseSafe:      cfg.UseSafe,
		Proposer:     proposer,
		ArtifactsDir: cfg.ArtifactsDir,
		Logger:       lggr,
	})
	if err != nil {
		return govern.ResultFailed, err
	}

	ops, err := BuildOps(plan, chain, book)
	if err != nil {
		return govern.ResultFailed, err
	}

	return govCtx.Run(ctx, plan.Description, ops)
}

// deployerKeyFromEnv builds transaction options from the hex private key in
// GOVOPS_DEPLOYER_KEY.
func deployerKeyFromEnv(selector uint64) (*bind.TransactOpts, error) {
	raw := os.Getenv(deployerKeyEnvVar)
	if raw == "" {
		return nil, fmt.Errorf("%s is not set", deployerKeyEnvVar)
	}

	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", deployerKeyEnvVar, err)
	}

	chainID, err := evm.Chain{Selector: selector}.ChainID()
	if err != nil {
		return nil, err
	}

	return bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
}
