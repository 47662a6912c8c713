package interfaces

import "github.com/ethereum/go-ethereum/common"

// Signer is the gateway's signing capability.
type Signer interface {
	// Address is the address recovered from signatures made by this signer.
	Address() common.Address

	// SignHash signs a 32-byte digest without any prefixing and returns a
	// 65-byte [R || S || V] signature with V in {27, 28}.
	SignHash(hash common.Hash) ([]byte, error)
}
