// Package config loads the govops runtime configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/meridianlabs/govops/safeservice"
)

// SafeOverride is the operator-supplied Safe configuration. The three fields
// form one consistent unit: an override must replace all of them, never a
// subset.
type SafeOverride struct {
	Address      string `mapstructure:"address" yaml:"address"`
	ChainID      uint64 `mapstructure:"chain_id" yaml:"chain_id"`
	TxServiceURL string `mapstructure:"tx_service_url" yaml:"tx_service_url"`
}

// IsZero reports whether no field is set.
func (s SafeOverride) IsZero() bool {
	return s.Address == "" && s.ChainID == 0 && s.TxServiceURL == ""
}

func (s SafeOverride) isComplete() bool {
	return s.Address != "" && s.ChainID != 0 && s.TxServiceURL != ""
}

// Config is the full runtime configuration for one deployment target.
type Config struct {
	// ChainSelector identifies the target chain.
	ChainSelector uint64 `mapstructure:"chain_selector" yaml:"chain_selector"`
	// RPCURL is the EVM node endpoint.
	RPCURL string `mapstructure:"rpc_url" yaml:"rpc_url"`
	// UseSafe enables multisig mode.
	UseSafe bool `mapstructure:"use_safe" yaml:"use_safe"`
	// Safe configures the approval service when UseSafe is set.
	Safe SafeOverride `mapstructure:"safe" yaml:"safe"`
	// AddressBookPath points at the deployed-contracts manifest.
	AddressBookPath string `mapstructure:"address_book" yaml:"address_book"`
	// ArtifactsDir receives batch artifacts before submission. Optional.
	ArtifactsDir string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
}

// Validate checks the configuration for completeness and consistency.
func (c Config) Validate() error {
	if c.ChainSelector == 0 {
		return errors.New("chain_selector is required")
	}
	if c.RPCURL == "" {
		return errors.New("rpc_url is required")
	}
	if c.AddressBookPath == "" {
		return errors.New("address_book is required")
	}
	if c.UseSafe {
		if c.Safe.IsZero() {
			return errors.New("use_safe is set but no safe configuration was provided")
		}
		if !c.Safe.isComplete() {
			return errors.New("safe override must set address, chain_id and tx_service_url together")
		}
		if !common.IsHexAddress(c.Safe.Address) {
			return fmt.Errorf("safe address %q is not a valid address", c.Safe.Address)
		}
	} else if !c.Safe.IsZero() && !c.Safe.isComplete() {
		return errors.New("safe override must set address, chain_id and tx_service_url together")
	}

	return nil
}

// SafeConfig returns the approval-service configuration derived from the
// override. Call only after Validate.
func (c Config) SafeConfig() safeservice.Config {
	return safeservice.Config{
		SafeAddress:  common.HexToAddress(c.Safe.Address),
		ChainID:      c.Safe.ChainID,
		TxServiceURL: c.Safe.TxServiceURL,
	}
}

// Load reads the configuration file at path. Environment variables prefixed
// with GOVOPS_ override file values, e.g. GOVOPS_RPC_URL or
// GOVOPS_SAFE_TX_SERVICE_URL.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("GOVOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
