package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ccip-gateway/ccip"
	"github.com/ruteri/ccip-gateway/interfaces"
	"github.com/ruteri/ccip-gateway/multicoin"
)

const (
	// DefaultTTL is how long a signed response stays valid.
	DefaultTTL = 3600 * time.Second

	// ContentHashKey is the text record holding the 0x-hex contenthash.
	ContentHashKey = "contenthash"
)

var (
	stringTy, _  = abi.NewType("string", "", nil)
	addressTy, _ = abi.NewType("address", "", nil)
	bytesTy, _   = abi.NewType("bytes", "", nil)

	stringResult  = abi.Arguments{{Type: stringTy}}
	addressResult = abi.Arguments{{Type: addressTy}}
	bytesResult   = abi.Arguments{{Type: bytesTy}}
)

// EngineConfig holds the resolution policy.
type EngineConfig struct {
	// NativeCoinType is answered from the records contract's resolver
	// address instead of text records.
	NativeCoinType multicoin.CoinType

	// Aliases gives the ticker tried before the numeric address key.
	Aliases multicoin.AliasTable

	// TTL is added to the current time to form the response expiry.
	TTL time.Duration

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// DefaultEngineConfig returns the gateway's standard policy.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		NativeCoinType: multicoin.AlephZero,
		Aliases:        multicoin.DefaultAliases,
		TTL:            DefaultTTL,
		Now:            time.Now,
	}
}

// Engine resolves decoded queries against a record source. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	source interfaces.RecordSource
	cfg    EngineConfig
	log    *slog.Logger
}

// NewEngine creates an engine over source. Zero-valued config fields fall
// back to DefaultEngineConfig.
func NewEngine(source interfaces.RecordSource, cfg EngineConfig, log *slog.Logger) *Engine {
	defaults := DefaultEngineConfig()
	if cfg.Aliases == nil {
		cfg.Aliases = defaults.Aliases
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		source: source,
		cfg:    cfg,
		log:    log,
	}
}

// Resolve executes the lookup for query and assembles the unsigned payload.
// Absent records resolve to empty or zero values; only malformed input,
// hash mismatches, unencodable values and record source failures are errors.
func (e *Engine) Resolve(ctx context.Context, query *interfaces.UnresolvedQuery) (*interfaces.UnsignedPayload, error) {
	sender, err := ccip.ParseSender(query.Request.Sender)
	if err != nil {
		return nil, err
	}

	calldata, err := ccip.DecodeHex(query.Request.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrPayloadUnparsable, err)
	}

	result, err := e.resolveCall(ctx, query.Name, query.Call)
	if err != nil {
		return nil, err
	}

	expires := uint64(e.cfg.Now().Unix()) + uint64(e.cfg.TTL/time.Second)

	return &interfaces.UnsignedPayload{
		Data:        result,
		Expires:     expires,
		RequestHash: crypto.Keccak256Hash(calldata),
		ResultHash:  crypto.Keccak256Hash(result),
		Sender:      sender,
	}, nil
}

func (e *Engine) resolveCall(ctx context.Context, name string, call interfaces.ResolverFunctionCall) ([]byte, error) {
	switch call := call.(type) {
	case interfaces.TextCall:
		e.log.Info("Resolution", "name", name, "record", call.Key)
		if err := checkNode(name, call.Node); err != nil {
			return nil, err
		}

		value, err := e.source.Text(ctx, name, call.Key)
		if err != nil {
			return nil, err
		}
		return stringResult.Pack(value)

	case interfaces.AddrCall:
		e.log.Info("Resolution Address", "name", name)
		if err := checkNode(name, call.Node); err != nil {
			return nil, err
		}

		value, err := e.lookupAddr(ctx, name, big.NewInt(int64(multicoin.Ethereum)))
		if err != nil {
			return nil, err
		}

		address := common.Address{}
		if value != "" {
			if !common.IsHexAddress(value) {
				e.log.Debug("Resolved address is not a hex address", "name", name, "value", value)
				return nil, fmt.Errorf("%w: address %q", interfaces.ErrUnparsable, value)
			}
			address = common.HexToAddress(value)
		}
		return addressResult.Pack(address)

	case interfaces.AddrMultichainCall:
		e.log.Info("Resolution Address Multichain", "name", name, "chain", call.CoinType)
		if err := checkNode(name, call.Node); err != nil {
			return nil, err
		}

		value, err := e.lookupAddr(ctx, name, call.CoinType)
		if err != nil {
			return nil, err
		}

		encoded, err := encodeMultichain(call.CoinType, value)
		if err != nil {
			e.log.Debug("Error while trying to encode address", "chain", call.CoinType, "err", err)
			return nil, fmt.Errorf("%w: %v", interfaces.ErrUnparsable, err)
		}
		return bytesResult.Pack(encoded)

	case interfaces.ContentHashCall:
		e.log.Info("Resolution Contenthash", "name", name)
		if err := checkNode(name, call.Node); err != nil {
			return nil, err
		}

		value, err := e.source.Text(ctx, name, ContentHashKey)
		if err != nil {
			return nil, err
		}

		contenthash := []byte{}
		if value != "" {
			contenthash, err = hexutil.Decode(value)
			if err != nil {
				return nil, fmt.Errorf("%w: contenthash %q", interfaces.ErrUnparsable, value)
			}
		}
		return bytesResult.Pack(contenthash)

	default:
		e.log.Info("Unimplemented Method", "name", name, "kind", call.Kind())
		return abi.Arguments{}.Pack()
	}
}

// lookupAddr returns the address record for coinType. The native coin type
// is read from the resolver address; other coin types try the alias key
// first and the numeric key second.
func (e *Engine) lookupAddr(ctx context.Context, name string, coinType *big.Int) (string, error) {
	if ct, err := multicoin.FromBig(coinType); err == nil {
		if ct == e.cfg.NativeCoinType {
			return e.source.ResolverAddress(ctx, name)
		}

		if alias, ok := e.cfg.Aliases.Alias(ct); ok {
			value, err := e.source.Text(ctx, name, "address."+alias)
			if err != nil {
				return "", err
			}
			if value != "" {
				return value, nil
			}
		}
	}

	return e.source.Text(ctx, name, "address."+coinType.String())
}

// encodeMultichain converts a resolved address to its record bytes. An unset
// Ethereum address is the zero address; any other unset address is empty.
func encodeMultichain(coinType *big.Int, value string) ([]byte, error) {
	ct, err := multicoin.FromBig(coinType)
	if value == "" {
		if err == nil && ct == multicoin.Ethereum {
			return common.Address{}.Bytes(), nil
		}
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	return multicoin.Encode(ct, value)
}

func checkNode(name string, node common.Hash) error {
	if expected := NameHash(name); expected != node {
		return fmt.Errorf("%w: node %s is not namehash(%q) %s", interfaces.ErrHashMismatch, node.Hex(), name, expected.Hex())
	}
	return nil
}

// IsClientError reports whether err was caused by the request rather than
// the gateway or its record source.
func IsClientError(err error) bool {
	return errors.Is(err, interfaces.ErrHashMismatch) ||
		errors.Is(err, interfaces.ErrPayloadUnparsable) ||
		errors.Is(err, interfaces.ErrSenderUnparsable)
}
