package interfaces

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CCIPRequest is the inbound EIP-3668 request envelope. Both fields are
// 0x-prefixed hex strings exactly as sent by the client; Data is the full
// resolve(bytes,bytes) calldata.
type CCIPRequest struct {
	Sender string `json:"sender"`
	Data   string `json:"data"`
}

// ResolverFunctionCall is a resolver call decoded from the inner calldata of
// resolve(bytes,bytes). The set of implementations is closed: new selectors
// are added as new variants in this file.
type ResolverFunctionCall interface {
	// Kind is a short stable name used in logs and metrics.
	Kind() string

	isResolverFunctionCall()
}

// TextCall is text(bytes32 node, string key).
type TextCall struct {
	Node common.Hash
	Key  string
}

// AddrCall is addr(bytes32 node), the chain-native (coin type 60) address.
type AddrCall struct {
	Node common.Hash
}

// AddrMultichainCall is addr(bytes32 node, uint256 coinType).
type AddrMultichainCall struct {
	Node     common.Hash
	CoinType *big.Int
}

// ContentHashCall is contenthash(bytes32 node).
type ContentHashCall struct {
	Node common.Hash
}

// UnknownCall carries the selector of a call the gateway does not implement.
type UnknownCall struct {
	Selector [4]byte
}

func (TextCall) Kind() string           { return "text" }
func (AddrCall) Kind() string           { return "addr" }
func (AddrMultichainCall) Kind() string { return "addr_multichain" }
func (ContentHashCall) Kind() string    { return "contenthash" }
func (UnknownCall) Kind() string        { return "unknown" }

func (TextCall) isResolverFunctionCall()           {}
func (AddrCall) isResolverFunctionCall()           {}
func (AddrMultichainCall) isResolverFunctionCall() {}
func (ContentHashCall) isResolverFunctionCall()    {}
func (UnknownCall) isResolverFunctionCall()        {}

// UnresolvedQuery is a decoded request. It is created per request, consumed
// once by the resolution engine and never persisted.
type UnresolvedQuery struct {
	// Name is the dotted domain name, e.g. "alice.azero".
	Name string

	// Call is the decoded resolver call.
	Call ResolverFunctionCall

	// Request is the envelope as received, used for the request hash and sender.
	Request CCIPRequest
}

// UnsignedPayload is the resolution result before signing.
type UnsignedPayload struct {
	// Data is the ABI-encoded result.
	Data []byte

	// Expires is the unix timestamp after which the signature is invalid.
	Expires uint64

	// RequestHash is keccak256 of the raw calldata sent by the client.
	RequestHash common.Hash

	// ResultHash is keccak256(Data).
	ResultHash common.Hash

	// Sender is the resolver contract that will verify the response.
	Sender common.Address
}

// SignedResponse is the terminal artifact returned to the client, ABI-encoded
// as (bytes result, uint64 expires, bytes signature).
type SignedResponse struct {
	Data      []byte
	Expires   uint64
	Signature []byte
}
