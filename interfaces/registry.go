package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// RecordSource answers record lookups for a full domain name by calling the
// records contract responsible for the domain's TLD. An empty string means
// the record is not set. Each call is one remote round-trip; errors are not
// retried.
type RecordSource interface {
	// Text returns the text record key of domain.
	Text(ctx context.Context, domain string, key string) (string, error)

	// ResolverAddress returns the chain-native address the domain resolves to.
	ResolverAddress(ctx context.Context, domain string) (string, error)
}

// TLDRegistry maps top-level domains to records contracts. Implementations
// must be safe for concurrent use.
type TLDRegistry interface {
	// Get returns the contract for tld and whether one is configured.
	Get(tld string) (common.Address, bool)

	// Upsert sets the contract for tld; a nil contract removes the entry.
	Upsert(tld string, contract *common.Address)

	// All returns a snapshot of the current mapping.
	All() map[string]common.Address
}
