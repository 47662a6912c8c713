package multicoin

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// CoinType is a SLIP-44 coin type, or an ENSIP-11 EVM chain coin type.
type CoinType uint32

const (
	Bitcoin         CoinType = 0
	Litecoin        CoinType = 2
	Dogecoin        CoinType = 3
	Ethereum        CoinType = 60
	EthereumClassic CoinType = 61
	Polkadot        CoinType = 354
	Kusama          CoinType = 434
	Solana          CoinType = 501
	AlephZero       CoinType = 643
)

// evmCoinTypeFlag marks ENSIP-11 coin types derived from an EVM chain id.
const evmCoinTypeFlag CoinType = 0x80000000

var (
	// ErrUnsupportedCoinType is returned for coin types without an encoder.
	ErrUnsupportedCoinType = errors.New("unsupported coin type")

	// ErrInvalidAddress is returned when an address does not parse for its coin type.
	ErrInvalidAddress = errors.New("invalid address")
)

// FromBig converts an on-chain uint256 coin type. It fails for values that
// do not fit a coin type.
func FromBig(v *big.Int) (CoinType, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() || v.Uint64() > 0xffffffff {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedCoinType, v)
	}
	return CoinType(v.Uint64()), nil
}

// EVMChainCoinType returns the ENSIP-11 coin type for an EVM chain id.
func EVMChainCoinType(chainID uint32) CoinType {
	return evmCoinTypeFlag | CoinType(chainID)
}

// IsEVM reports whether addresses of this coin type are EVM addresses.
func (c CoinType) IsEVM() bool {
	return c == Ethereum || c == EthereumClassic || c&evmCoinTypeFlag != 0
}

// String returns the decimal coin type, as used in "address.<coinType>" record keys.
func (c CoinType) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Encoder converts between the text and binary form of one address family.
type Encoder interface {
	Encode(addr string) ([]byte, error)
	Decode(data []byte) (string, error)
}

var encoders = map[CoinType]Encoder{
	Bitcoin: &bitcoinEncoder{
		p2pkh: []byte{0x00},
		p2sh:  []byte{0x05},
		hrp:   "bc",
	},
	Litecoin: &bitcoinEncoder{
		p2pkh: []byte{0x30},
		p2sh:  []byte{0x32, 0x05},
		hrp:   "ltc",
	},
	Dogecoin: &bitcoinEncoder{
		p2pkh: []byte{0x1e},
		p2sh:  []byte{0x16},
	},
	Ethereum:        evmEncoder{},
	EthereumClassic: evmEncoder{},
	Solana:          solanaEncoder{},
	Polkadot:        &ss58Encoder{prefix: 0},
	Kusama:          &ss58Encoder{prefix: 2},
	AlephZero:       &ss58Encoder{prefix: 42},
}

// EncoderFor returns the encoder for coinType.
func EncoderFor(coinType CoinType) (Encoder, error) {
	if enc, ok := encoders[coinType]; ok {
		return enc, nil
	}
	if coinType.IsEVM() {
		return evmEncoder{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedCoinType, coinType)
}

// Encode converts a human-readable address to its binary record form.
func Encode(coinType CoinType, addr string) ([]byte, error) {
	enc, err := EncoderFor(coinType)
	if err != nil {
		return nil, err
	}
	return enc.Encode(addr)
}

// Decode converts a binary address record back to its human-readable form.
func Decode(coinType CoinType, data []byte) (string, error) {
	enc, err := EncoderFor(coinType)
	if err != nil {
		return "", err
	}
	return enc.Decode(data)
}

// AliasTable maps coin types to the short ticker used in record keys
// ("address.btc" before "address.0").
type AliasTable map[CoinType]string

// DefaultAliases is the alias table used by the gateway.
var DefaultAliases = AliasTable{
	Bitcoin:  "btc",
	Ethereum: "eth",
	Polkadot: "dot",
	Kusama:   "ksm",
	Solana:   "sol",
}

// Alias returns the ticker for coinType, if any.
func (t AliasTable) Alias(coinType CoinType) (string, bool) {
	alias, ok := t[coinType]
	return alias, ok
}
