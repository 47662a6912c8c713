package ccip

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const resolverABIJSON = `[
	{"type":"function","name":"resolve","stateMutability":"view",
	 "inputs":[{"name":"name","type":"bytes"},{"name":"data","type":"bytes"}],
	 "outputs":[{"name":"","type":"bytes"}]},
	{"type":"function","name":"text","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],
	 "outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"addr","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"}],
	 "outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"addr","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"},{"name":"coinType","type":"uint256"}],
	 "outputs":[{"name":"","type":"bytes"}]},
	{"type":"function","name":"contenthash","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"}],
	 "outputs":[{"name":"","type":"bytes"}]}
]`

// ResolverABI describes the extended resolver interface (ENSIP-10) and the
// record getters the gateway answers.
var ResolverABI abi.ABI

// Selectors of the supported calls.
var (
	ResolveSelector        [4]byte
	TextSelector           [4]byte
	AddrSelector           [4]byte
	AddrMultichainSelector [4]byte
	ContentHashSelector    [4]byte
)

// Method names as assigned by go-ethereum to the overloaded addr functions.
const (
	methodResolve        = "resolve"
	methodText           = "text"
	methodAddr           = "addr"
	methodAddrMultichain = "addr0"
	methodContentHash    = "contenthash"
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(resolverABIJSON))
	if err != nil {
		panic(err)
	}
	ResolverABI = parsed

	copy(ResolveSelector[:], parsed.Methods[methodResolve].ID)
	copy(TextSelector[:], parsed.Methods[methodText].ID)
	copy(AddrSelector[:], parsed.Methods[methodAddr].ID)
	copy(AddrMultichainSelector[:], parsed.Methods[methodAddrMultichain].ID)
	copy(ContentHashSelector[:], parsed.Methods[methodContentHash].ID)
}
