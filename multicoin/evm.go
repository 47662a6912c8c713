package multicoin

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type evmEncoder struct{}

func (evmEncoder) Encode(addr string) ([]byte, error) {
	if !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("%w: %q is not a hex address", ErrInvalidAddress, addr)
	}

	address := common.HexToAddress(addr)
	body := addr[2:]
	mixedCase := body != strings.ToLower(body) && body != strings.ToUpper(body)
	if mixedCase && address.Hex() != addr {
		return nil, fmt.Errorf("%w: bad EIP-55 checksum %s", ErrInvalidAddress, addr)
	}

	return address.Bytes(), nil
}

func (evmEncoder) Decode(data []byte) (string, error) {
	if len(data) != common.AddressLength {
		return "", fmt.Errorf("%w: address must be %d bytes", ErrInvalidAddress, common.AddressLength)
	}
	return common.BytesToAddress(data).Hex(), nil
}
