package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// fileEntry is the YAML form of one contract entry.
type fileEntry struct {
	Address string `yaml:"address"`
	Type    string `yaml:"type"`
	Version string `yaml:"version"`
}

// fileFormat is the YAML manifest layout: chain selector -> name -> entry.
type fileFormat struct {
	Chains map[uint64]map[string]fileEntry `yaml:"chains"`
}

// LoadFile reads an address book manifest from path.
func LoadFile(path string) (*AddressBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address book %s: %w", path, err)
	}

	var ff fileFormat
	if err = yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse address book %s: %w", path, err)
	}

	book := NewAddressBook()
	for selector, entries := range ff.Chains {
		for name, fe := range entries {
			if !common.IsHexAddress(fe.Address) {
				return nil, fmt.Errorf("contract %q on chain %d: address %q: %w",
					name, selector, fe.Address, ErrInvalidAddress)
			}
			tv, terr := TypeAndVersionFromString(fe.Type + " " + fe.Version)
			if terr != nil {
				return nil, fmt.Errorf("contract %q on chain %d: %w", name, selector, terr)
			}
			if err = book.Save(selector, name, Entry{
				Address:        common.HexToAddress(fe.Address),
				TypeAndVersion: tv,
			}); err != nil {
				return nil, err
			}
		}
	}

	return book, nil
}

// WriteFile persists the book as a YAML manifest at path.
func (b *AddressBook) WriteFile(path string) error {
	ff := fileFormat{Chains: make(map[uint64]map[string]fileEntry)}
	for _, selector := range b.ChainSelectors() {
		entries, err := b.EntriesForChain(selector)
		if err != nil {
			return err
		}
		chain := make(map[string]fileEntry, len(entries))
		for _, e := range entries {
			chain[e.Name] = fileEntry{
				Address: e.Entry.Address.Hex(),
				Type:    e.Entry.Type.String(),
				Version: e.Entry.Version.String(),
			}
		}
		ff.Chains[selector] = chain
	}

	data, err := yaml.Marshal(ff)
	if err != nil {
		return fmt.Errorf("failed to encode address book: %w", err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write address book %s: %w", path, err)
	}

	return nil
}
