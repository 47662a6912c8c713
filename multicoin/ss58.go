package multicoin

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	ss58KeyLen      = 32
	ss58ChecksumLen = 2
)

var ss58Context = []byte("SS58PRE")

// ss58Encoder handles Substrate addresses for one network prefix.
type ss58Encoder struct {
	prefix uint16
}

func (e *ss58Encoder) Encode(addr string) ([]byte, error) {
	raw := base58.Decode(addr)
	if len(raw) < 1 {
		return nil, fmt.Errorf("%w: %q is not base58", ErrInvalidAddress, addr)
	}

	prefix, prefixLen, err := decodeSS58Prefix(raw)
	if err != nil {
		return nil, err
	}
	if len(raw) != prefixLen+ss58KeyLen+ss58ChecksumLen {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidAddress, len(raw))
	}
	if prefix != e.prefix {
		return nil, fmt.Errorf("%w: network prefix %d, expected %d", ErrInvalidAddress, prefix, e.prefix)
	}

	body := raw[:prefixLen+ss58KeyLen]
	if !bytes.Equal(ss58Checksum(body), raw[len(body):]) {
		return nil, fmt.Errorf("%w: bad checksum", ErrInvalidAddress)
	}

	return bytes.Clone(raw[prefixLen:len(body)]), nil
}

func (e *ss58Encoder) Decode(data []byte) (string, error) {
	if len(data) != ss58KeyLen {
		return "", fmt.Errorf("%w: public key must be %d bytes", ErrInvalidAddress, ss58KeyLen)
	}

	body := append(encodeSS58Prefix(e.prefix), data...)
	return base58.Encode(append(body, ss58Checksum(body)...)), nil
}

func decodeSS58Prefix(raw []byte) (uint16, int, error) {
	switch {
	case raw[0] < 64:
		return uint16(raw[0]), 1, nil
	case raw[0] < 128 && len(raw) > 1:
		lower := (raw[0] << 2) | (raw[1] >> 6)
		upper := raw[1] & 0x3f
		return uint16(lower) | uint16(upper)<<8, 2, nil
	default:
		return 0, 0, fmt.Errorf("%w: reserved ss58 prefix", ErrInvalidAddress)
	}
}

func encodeSS58Prefix(prefix uint16) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	first := byte((prefix&0xfc)>>2) | 0x40
	second := byte(prefix>>8) | byte((prefix&0x03)<<6)
	return []byte{first, second}
}

func ss58Checksum(body []byte) []byte {
	sum := blake2b.Sum512(append(append([]byte{}, ss58Context...), body...))
	return sum[:ss58ChecksumLen]
}
