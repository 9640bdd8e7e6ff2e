package cli

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/meridianlabs/govops/admin"
	"github.com/meridianlabs/govops/chain/evm"
	"github.com/meridianlabs/govops/govern"
	"github.com/meridianlabs/govops/registry"
)

// Plan is a declarative list of governance operations applied in order.
type Plan struct {
	// Description names the batch submitted for approval.
	Description string          `yaml:"description"`
	Operations  []PlanOperation `yaml:"operations"`
}

// PlanOperation is one entry in a Plan. Type selects the operation; the
// remaining fields are interpreted per type. Contract references are either a
// name in the address book or a literal hex address.
type PlanOperation struct {
	Type string `yaml:"type"`

	// grant-role / revoke-role
	Contract string `yaml:"contract,omitempty"`
	Role     string `yaml:"role,omitempty"`
	Account  string `yaml:"account,omitempty"`

	// wire-feed
	Oracle string `yaml:"oracle,omitempty"`
	Asset  string `yaml:"asset,omitempty"`
	Feed   string `yaml:"feed,omitempty"`

	// allow-collateral
	RiskEngine string `yaml:"risk_engine,omitempty"`
	Token      string `yaml:"token,omitempty"`

	// upgrade
	ProxyAdmin     string `yaml:"proxy_admin,omitempty"`
	Proxy          string `yaml:"proxy,omitempty"`
	Implementation string `yaml:"implementation,omitempty"`
}

// LoadPlan reads a Plan from a YAML file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	var plan Plan
	if err = yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	if plan.Description == "" {
		return Plan{}, fmt.Errorf("plan %s: description is required", path)
	}
	if len(plan.Operations) == 0 {
		return Plan{}, fmt.Errorf("plan %s: at least one operation is required", path)
	}

	return plan, nil
}

// resolveAddress turns a contract reference into an address: a literal hex
// address passes through, anything else is looked up in the address book.
func resolveAddress(book *registry.AddressBook, selector uint64, ref string) (common.Address, error) {
	if ref == "" {
		return common.Address{}, fmt.Errorf("empty contract reference")
	}
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}

	entry, err := book.Resolve(selector, ref)
	if err != nil {
		return common.Address{}, err
	}

	return entry.Address, nil
}

// BuildOps turns a Plan into dispatchable operations against chain, resolving
// contract references through book.
func BuildOps(plan Plan, chain evm.Chain, book *registry.AddressBook) ([]govern.Op, error) {
	ops := make([]govern.Op, 0, len(plan.Operations))
	for i, po := range plan.Operations {
		op, err := buildOp(po, chain, book)
		if err != nil {
			return nil, fmt.Errorf("plan operation %d (%s): %w", i, po.Type, err)
		}
		ops = append(ops, op)
	}

	return ops, nil
}

func buildOp(po PlanOperation, chain evm.Chain, book *registry.AddressBook) (govern.Op, error) {
	resolve := func(ref string) (common.Address, error) {
		return resolveAddress(book, chain.Selector, ref)
	}

	switch po.Type {
	case "grant-role", "revoke-role":
		contract, err := resolve(po.Contract)
		if err != nil {
			return govern.Op{}, err
		}
		if !common.IsHexAddress(po.Account) {
			return govern.Op{}, fmt.Errorf("account %q is not a valid address", po.Account)
		}
		if po.Role == "" {
			return govern.Op{}, fmt.Errorf("role is required")
		}
		role := evm.RoleID(po.Role)
		if po.Role == "DEFAULT_ADMIN_ROLE" {
			role = evm.DefaultAdminRole
		}
		account := common.HexToAddress(po.Account)
		if po.Type == "grant-role" {
			return admin.EnsureRole(chain, contract, role, account), nil
		}

		return admin.RevokeRole(chain, contract, role, account), nil

	case "wire-feed":
		oracle, err := resolve(po.Oracle)
		if err != nil {
			return govern.Op{}, err
		}
		asset, err := resolve(po.Asset)
		if err != nil {
			return govern.Op{}, err
		}
		feed, err := resolve(po.Feed)
		if err != nil {
			return govern.Op{}, err
		}

		return admin.WireFeed(chain, oracle, asset, feed), nil

	case "allow-collateral":
		riskEngine, err := resolve(po.RiskEngine)
		if err != nil {
			return govern.Op{}, err
		}
		token, err := resolve(po.Token)
		if err != nil {
			return govern.Op{}, err
		}

		return admin.AllowCollateral(chain, riskEngine, token), nil

	case "upgrade":
		proxyAdmin, err := resolve(po.ProxyAdmin)
		if err != nil {
			return govern.Op{}, err
		}
		proxy, err := resolve(po.Proxy)
		if err != nil {
			return govern.Op{}, err
		}
		implementation, err := resolve(po.Implementation)
		if err != nil {
			return govern.Op{}, err
		}

		return admin.UpgradeImplementation(chain, proxyAdmin, proxy, implementation), nil

	default:
		return govern.Op{}, fmt.Errorf("unknown operation type %q", po.Type)
	}
}
