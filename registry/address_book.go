// Package registry tracks the deployed protocol contracts that governance
// operations target: a per-chain book of named contracts with their address,
// type and version, persisted as a YAML manifest.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/ethereum/go-ethereum/common"
	chainsel "github.com/smartcontractkit/chain-selectors"
)

var (
	ErrInvalidChainSelector = errors.New("invalid chain selector")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrChainNotFound        = errors.New("chain not found")
	ErrContractNotFound     = errors.New("contract not found")
)

// ContractType identifies a contract type, e.g. "PriceOracle".
type ContractType string

func (ct ContractType) String() string {
	return string(ct)
}

// TypeAndVersion records what a deployed address is. It is stored rather than
// derived since not every contract exposes a version on chain.
type TypeAndVersion struct {
	Type    ContractType   `yaml:"type"`
	Version semver.Version `yaml:"version"`
}

func (tv TypeAndVersion) String() string {
	return fmt.Sprintf("%s %s", tv.Type, tv.Version.String())
}

// TypeAndVersionFromString parses "PriceOracle 1.2.0".
func TypeAndVersionFromString(s string) (TypeAndVersion, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return TypeAndVersion{}, fmt.Errorf("invalid type and version string: %s", s)
	}
	v, err := semver.NewVersion(parts[1])
	if err != nil {
		return TypeAndVersion{}, err
	}

	return TypeAndVersion{Type: ContractType(parts[0]), Version: *v}, nil
}

// Entry is one deployed contract in the book.
type Entry struct {
	Address common.Address
	TypeAndVersion
}

// AddressBook stores deployed contract entries keyed by chain selector and
// contract name. Iteration order is deterministic: chains ascending, names
// lexicographic. Addresses are standardized to EIP55.
type AddressBook struct {
	// chain selector -> *treemap.Map of name -> Entry
	byChain *treemap.Map
	mtx     sync.RWMutex
}

// NewAddressBook returns an empty AddressBook.
func NewAddressBook() *AddressBook {
	return &AddressBook{
		byChain: treemap.NewWith(utils.UInt64Comparator),
	}
}

func (b *AddressBook) save(chainSelector uint64, name string, entry Entry) error {
	if _, err := chainsel.GetChainIDFromSelector(chainSelector); err != nil {
		return fmt.Errorf("chain selector %d: %w", chainSelector, ErrInvalidChainSelector)
	}
	if entry.Address == (common.Address{}) {
		return fmt.Errorf("contract %q: address cannot be zero: %w", name, ErrInvalidAddress)
	}
	if name == "" {
		return errors.New("contract name cannot be empty")
	}
	if entry.Type == "" {
		return fmt.Errorf("contract %q: type cannot be empty", name)
	}

	names, exists := b.byChain.Get(chainSelector)
	if !exists {
		names = treemap.NewWithStringComparator()
		b.byChain.Put(chainSelector, names)
	}

	nameMap := names.(*treemap.Map)
	if _, exists := nameMap.Get(name); exists {
		return fmt.Errorf("contract %q already exists for chain %d", name, chainSelector)
	}
	nameMap.Put(name, entry)

	return nil
}

// Save records a deployed contract. It errors on a conflicting existing entry.
func (b *AddressBook) Save(chainSelector uint64, name string, entry Entry) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.save(chainSelector, name, entry)
}

// Resolve returns the entry for name on the given chain.
func (b *AddressBook) Resolve(chainSelector uint64, name string) (Entry, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	names, exists := b.byChain.Get(chainSelector)
	if !exists {
		return Entry{}, fmt.Errorf("chain selector %d: %w", chainSelector, ErrChainNotFound)
	}

	entry, exists := names.(*treemap.Map).Get(name)
	if !exists {
		return Entry{}, fmt.Errorf("contract %q on chain %d: %w", name, chainSelector, ErrContractNotFound)
	}

	return entry.(Entry), nil
}

// NamedEntry pairs a contract name with its entry for ordered listings.
type NamedEntry struct {
	Name  string
	Entry Entry
}

// EntriesForChain returns the chain's entries sorted by name.
func (b *AddressBook) EntriesForChain(chainSelector uint64) ([]NamedEntry, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	names, exists := b.byChain.Get(chainSelector)
	if !exists {
		return nil, fmt.Errorf("chain selector %d: %w", chainSelector, ErrChainNotFound)
	}

	nameMap := names.(*treemap.Map)
	entries := make([]NamedEntry, 0, nameMap.Size())
	it := nameMap.Iterator()
	for it.Next() {
		entries = append(entries, NamedEntry{Name: it.Key().(string), Entry: it.Value().(Entry)})
	}

	return entries, nil
}

// ChainSelectors returns the chains in the book in ascending order.
func (b *AddressBook) ChainSelectors() []uint64 {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	selectors := make([]uint64, 0, b.byChain.Size())
	it := b.byChain.Iterator()
	for it.Next() {
		selectors = append(selectors, it.Key().(uint64))
	}

	return selectors
}

// Merge copies every entry of other into the book, erroring on conflicts.
func (b *AddressBook) Merge(other *AddressBook) error {
	for _, selector := range other.ChainSelectors() {
		entries, err := other.EntriesForChain(selector)
		if err != nil {
			return err
		}

		b.mtx.Lock()
		for _, e := range entries {
			if err := b.save(selector, e.Name, e.Entry); err != nil {
				b.mtx.Unlock()

				return err
			}
		}
		b.mtx.Unlock()
	}

	return nil
}
