package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/ccip-gateway/interfaces"
)

// TLDTable is the in-memory TLD to records contract mapping. It implements
// interfaces.TLDRegistry and is safe for concurrent use.
type TLDTable struct {
	mu   sync.RWMutex
	tlds map[string]common.Address
}

// NewTLDTable creates a table seeded with initial, which may be nil.
func NewTLDTable(initial map[string]common.Address) *TLDTable {
	t := &TLDTable{tlds: make(map[string]common.Address, len(initial))}
	for tld, contract := range initial {
		t.tlds[normalizeTLD(tld)] = contract
	}
	return t
}

// Get returns the contract for tld and whether one is configured.
func (t *TLDTable) Get(tld string) (common.Address, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	contract, ok := t.tlds[normalizeTLD(tld)]
	return contract, ok
}

// Upsert sets the contract for tld, or removes tld when contract is nil.
func (t *TLDTable) Upsert(tld string, contract *common.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if contract == nil {
		delete(t.tlds, normalizeTLD(tld))
		return
	}
	t.tlds[normalizeTLD(tld)] = *contract
}

// Replace swaps the whole mapping, as done on a configuration reload.
func (t *TLDTable) Replace(tlds map[string]common.Address) {
	fresh := make(map[string]common.Address, len(tlds))
	for tld, contract := range tlds {
		fresh[normalizeTLD(tld)] = contract
	}

	t.mu.Lock()
	t.tlds = fresh
	t.mu.Unlock()
}

// All returns a copy of the current mapping.
func (t *TLDTable) All() map[string]common.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]common.Address, len(t.tlds))
	for tld, contract := range t.tlds {
		out[tld] = contract
	}
	return out
}

// LoadTLDConfig parses a JSON object of the form {"azero": "0x..."}.
func LoadTLDConfig(data []byte) (map[string]common.Address, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid TLD config: %w", err)
	}

	tlds := make(map[string]common.Address, len(raw))
	for tld, contract := range raw {
		tld = normalizeTLD(tld)
		if tld == "" {
			return nil, fmt.Errorf("invalid TLD config: empty TLD")
		}
		if !common.IsHexAddress(contract) {
			return nil, fmt.Errorf("invalid TLD config: contract %q for %q is not an address", contract, tld)
		}
		tlds[tld] = common.HexToAddress(contract)
	}
	return tlds, nil
}

func normalizeTLD(tld string) string {
	return strings.ToLower(strings.Trim(tld, ". "))
}

// FetchTLDConfig reads and parses the TLD configuration document from backend.
func FetchTLDConfig(ctx context.Context, backend interfaces.StorageBackend) (map[string]common.Address, error) {
	data, err := backend.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch TLD config from %s: %w", backend.LocationURI(), err)
	}
	return LoadTLDConfig(data)
}
