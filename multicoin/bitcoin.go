package multicoin

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Script opcodes used by the standard output templates.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opEqual       = 0x87
	opEqualVerify = 0x88
	opCheckSig    = 0xac
	op1           = 0x51
	op16          = 0x60

	hash160Len = 20
)

// bitcoinEncoder encodes addresses as their scriptPubkey. The first entry of
// each version list is used when decoding.
type bitcoinEncoder struct {
	p2pkh []byte
	p2sh  []byte

	// hrp is the bech32 human readable part; empty disables segwit.
	hrp string
}

func (e *bitcoinEncoder) Encode(addr string) ([]byte, error) {
	if e.hrp != "" && strings.HasPrefix(strings.ToLower(addr), e.hrp+"1") {
		return e.encodeSegwit(addr)
	}

	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(payload) != hash160Len {
		return nil, fmt.Errorf("%w: unexpected payload length %d", ErrInvalidAddress, len(payload))
	}

	switch {
	case bytes.IndexByte(e.p2pkh, version) >= 0:
		script := []byte{opDup, opHash160, hash160Len}
		script = append(script, payload...)
		return append(script, opEqualVerify, opCheckSig), nil
	case bytes.IndexByte(e.p2sh, version) >= 0:
		script := []byte{opHash160, hash160Len}
		script = append(script, payload...)
		return append(script, opEqual), nil
	default:
		return nil, fmt.Errorf("%w: unknown version byte 0x%02x", ErrInvalidAddress, version)
	}
}

func (e *bitcoinEncoder) encodeSegwit(addr string) ([]byte, error) {
	hrp, data, bechVersion, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != e.hrp || len(data) < 1 {
		return nil, fmt.Errorf("%w: bad segwit address", ErrInvalidAddress)
	}

	witnessVersion := data[0]
	if witnessVersion > 16 {
		return nil, fmt.Errorf("%w: witness version %d", ErrInvalidAddress, witnessVersion)
	}
	if (witnessVersion == 0) != (bechVersion == bech32.Version0) {
		return nil, fmt.Errorf("%w: wrong bech32 variant for witness version %d", ErrInvalidAddress, witnessVersion)
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(program) < 2 || len(program) > 40 {
		return nil, fmt.Errorf("%w: witness program length %d", ErrInvalidAddress, len(program))
	}
	if witnessVersion == 0 && len(program) != 20 && len(program) != 32 {
		return nil, fmt.Errorf("%w: v0 witness program length %d", ErrInvalidAddress, len(program))
	}

	op := byte(0)
	if witnessVersion > 0 {
		op = op1 - 1 + witnessVersion
	}
	return append([]byte{op, byte(len(program))}, program...), nil
}

func (e *bitcoinEncoder) Decode(script []byte) (string, error) {
	switch {
	case len(script) == 25 && script[0] == opDup && script[1] == opHash160 && script[2] == hash160Len &&
		script[23] == opEqualVerify && script[24] == opCheckSig:
		return base58.CheckEncode(script[3:23], e.p2pkh[0]), nil
	case len(script) == 23 && script[0] == opHash160 && script[1] == hash160Len && script[22] == opEqual:
		return base58.CheckEncode(script[2:22], e.p2sh[0]), nil
	case e.hrp != "" && len(script) >= 4 && int(script[1]) == len(script)-2 &&
		(script[0] == 0 || (script[0] >= op1 && script[0] <= op16)):
		return e.decodeSegwit(script)
	default:
		return "", fmt.Errorf("%w: unrecognised script", ErrInvalidAddress)
	}
}

func (e *bitcoinEncoder) decodeSegwit(script []byte) (string, error) {
	witnessVersion := script[0]
	if witnessVersion != 0 {
		witnessVersion -= op1 - 1
	}

	converted, err := bech32.ConvertBits(script[2:], 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{witnessVersion}, converted...)

	if witnessVersion == 0 {
		return bech32.Encode(e.hrp, data)
	}
	return bech32.EncodeM(e.hrp, data)
}
