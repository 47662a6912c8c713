package multicoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const solanaKeyLen = 32

type solanaEncoder struct{}

func (solanaEncoder) Encode(addr string) ([]byte, error) {
	key := base58.Decode(addr)
	if len(key) != solanaKeyLen {
		return nil, fmt.Errorf("%w: %q is not a base58 public key", ErrInvalidAddress, addr)
	}
	return key, nil
}

func (solanaEncoder) Decode(data []byte) (string, error) {
	if len(data) != solanaKeyLen {
		return "", fmt.Errorf("%w: public key must be %d bytes", ErrInvalidAddress, solanaKeyLen)
	}
	return base58.Encode(data), nil
}
