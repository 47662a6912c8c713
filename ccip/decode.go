package ccip

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/ccip-gateway/interfaces"
)

// DecodeRequest decodes an inbound request envelope into a query. The data
// field must be resolve(bytes,bytes) calldata; the domain is taken from its
// DNS-encoded name argument.
func DecodeRequest(req interfaces.CCIPRequest) (*interfaces.UnresolvedQuery, error) {
	calldata, err := DecodeHex(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrPayloadUnparsable, err)
	}

	if _, err := ParseSender(req.Sender); err != nil {
		return nil, err
	}

	name, inner, err := DecodeResolve(calldata)
	if err != nil {
		return nil, err
	}

	call, err := DecodeResolverCall(inner)
	if err != nil {
		return nil, err
	}

	return &interfaces.UnresolvedQuery{
		Name:    name,
		Call:    call,
		Request: req,
	}, nil
}

// DecodeResolve unpacks resolve(bytes name, bytes data) calldata, returning
// the dotted domain name and the inner resolver call.
func DecodeResolve(calldata []byte) (string, []byte, error) {
	if len(calldata) < 4 || [4]byte(calldata[:4]) != ResolveSelector {
		return "", nil, fmt.Errorf("%w: not a resolve(bytes,bytes) call", interfaces.ErrPayloadUnparsable)
	}

	args, err := ResolverABI.Methods[methodResolve].Inputs.Unpack(calldata[4:])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", interfaces.ErrPayloadUnparsable, err)
	}

	name, err := DecodeDNSName(args[0].([]byte))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", interfaces.ErrPayloadUnparsable, err)
	}

	return name, args[1].([]byte), nil
}

// DecodeResolverCall dispatches on the leading selector of a resolver call.
// Unrecognised or truncated selectors yield UnknownCall; a recognised selector
// with malformed arguments fails with ErrPayloadUnparsable.
func DecodeResolverCall(data []byte) (interfaces.ResolverFunctionCall, error) {
	var selector [4]byte
	if len(data) < 4 {
		copy(selector[:], data)
		return interfaces.UnknownCall{Selector: selector}, nil
	}
	copy(selector[:], data[:4])

	var method string
	switch selector {
	case TextSelector:
		method = methodText
	case AddrSelector:
		method = methodAddr
	case AddrMultichainSelector:
		method = methodAddrMultichain
	case ContentHashSelector:
		method = methodContentHash
	default:
		return interfaces.UnknownCall{Selector: selector}, nil
	}

	args, err := ResolverABI.Methods[method].Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s arguments: %v", interfaces.ErrPayloadUnparsable, method, err)
	}
	node := common.Hash(args[0].([32]byte))

	switch selector {
	case TextSelector:
		return interfaces.TextCall{Node: node, Key: args[1].(string)}, nil
	case AddrSelector:
		return interfaces.AddrCall{Node: node}, nil
	case AddrMultichainSelector:
		return interfaces.AddrMultichainCall{Node: node, CoinType: args[1].(*big.Int)}, nil
	default:
		return interfaces.ContentHashCall{Node: node}, nil
	}
}

// ParseSender validates a 20-byte hex sender address.
func ParseSender(sender string) (common.Address, error) {
	if !common.IsHexAddress(sender) {
		return common.Address{}, fmt.Errorf("%w: %q", interfaces.ErrSenderUnparsable, sender)
	}
	return common.HexToAddress(sender), nil
}

// DecodeHex decodes a hex string with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
