package ccip

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EncodeResolve packs resolve(bytes,bytes) calldata for a dotted name and an
// inner resolver call.
func EncodeResolve(name string, call []byte) ([]byte, error) {
	wire, err := EncodeDNSName(name)
	if err != nil {
		return nil, err
	}
	return ResolverABI.Pack(methodResolve, wire, call)
}

// EncodeTextCall packs text(node, key).
func EncodeTextCall(node common.Hash, key string) ([]byte, error) {
	return ResolverABI.Pack(methodText, [32]byte(node), key)
}

// EncodeAddrCall packs addr(node).
func EncodeAddrCall(node common.Hash) ([]byte, error) {
	return ResolverABI.Pack(methodAddr, [32]byte(node))
}

// EncodeAddrMultichainCall packs addr(node, coinType).
func EncodeAddrMultichainCall(node common.Hash, coinType *big.Int) ([]byte, error) {
	return ResolverABI.Pack(methodAddrMultichain, [32]byte(node), coinType)
}

// EncodeContentHashCall packs contenthash(node).
func EncodeContentHashCall(node common.Hash) ([]byte, error) {
	return ResolverABI.Pack(methodContentHash, [32]byte(node))
}
