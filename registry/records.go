package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/ccip-gateway/interfaces"
)

// RecordStore implements interfaces.RecordSource by routing each lookup to
// the records contract registered for the domain's TLD.
type RecordStore struct {
	tlds     interfaces.TLDRegistry
	contract RecordsContract
	log      *slog.Logger
}

// NewRecordStore creates a record source over tlds and contract.
func NewRecordStore(tlds interfaces.TLDRegistry, contract RecordsContract, log *slog.Logger) *RecordStore {
	return &RecordStore{
		tlds:     tlds,
		contract: contract,
		log:      log,
	}
}

// Text returns the text record key of domain.
func (s *RecordStore) Text(ctx context.Context, domain string, key string) (string, error) {
	name, contract, err := s.route(domain)
	if err != nil {
		return "", err
	}

	value, err := s.contract.GetRecord(ctx, contract, name, key)
	if err != nil {
		s.log.Error("Record lookup failed", "domain", domain, "key", key, "err", err)
		return "", err
	}
	return value, nil
}

// ResolverAddress returns the native address of domain.
func (s *RecordStore) ResolverAddress(ctx context.Context, domain string) (string, error) {
	name, contract, err := s.route(domain)
	if err != nil {
		return "", err
	}

	value, err := s.contract.GetAddress(ctx, contract, name)
	if err != nil {
		s.log.Error("Address lookup failed", "domain", domain, "err", err)
		return "", err
	}
	return value, nil
}

func (s *RecordStore) route(domain string) (string, common.Address, error) {
	name, tld := SplitDomain(domain)
	contract, ok := s.tlds.Get(tld)
	if !ok {
		return "", common.Address{}, fmt.Errorf("%w: %q", interfaces.ErrTLDNotSupported, tld)
	}
	return name, contract, nil
}

// SplitDomain splits domain into its first label and the remaining TLD:
// "alice.azero" gives ("alice", "azero") and "a.b.tzero" gives ("a", "b.tzero").
func SplitDomain(domain string) (name string, tld string) {
	name, tld, _ = strings.Cut(domain, ".")
	return name, tld
}
