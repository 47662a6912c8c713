package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const recordsABIJSON = `[
	{"type":"function","name":"getRecord","stateMutability":"view",
	 "inputs":[{"name":"name","type":"string"},{"name":"key","type":"string"}],
	 "outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"getAddress","stateMutability":"view",
	 "inputs":[{"name":"name","type":"string"}],
	 "outputs":[{"name":"","type":"string"}]}
]`

// RecordsABI is the ABI of the per-TLD records contract.
var RecordsABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(recordsABIJSON))
	if err != nil {
		panic(err)
	}
	RecordsABI = parsed
}

// RecordsContract reads records from a records contract.
type RecordsContract interface {
	// GetRecord returns the text record key of name, or "" when unset.
	GetRecord(ctx context.Context, contract common.Address, name, key string) (string, error)

	// GetAddress returns the native address name resolves to, or "" when unset.
	GetAddress(ctx context.Context, contract common.Address, name string) (string, error)
}

// OnchainRecordsClient implements RecordsContract with read-only eth_call
// requests against any records contract reachable through caller.
type OnchainRecordsClient struct {
	caller bind.ContractCaller
}

// NewOnchainRecordsClient creates a client reading through caller, usually an *ethclient.Client.
func NewOnchainRecordsClient(caller bind.ContractCaller) *OnchainRecordsClient {
	return &OnchainRecordsClient{caller: caller}
}

// GetRecord calls getRecord(name, key) on contract.
func (c *OnchainRecordsClient) GetRecord(ctx context.Context, contract common.Address, name, key string) (string, error) {
	return c.callString(ctx, contract, "getRecord", name, key)
}

// GetAddress calls getAddress(name) on contract.
func (c *OnchainRecordsClient) GetAddress(ctx context.Context, contract common.Address, name string) (string, error) {
	return c.callString(ctx, contract, "getAddress", name)
}

func (c *OnchainRecordsClient) callString(ctx context.Context, contract common.Address, method string, params ...interface{}) (string, error) {
	bound := bind.NewBoundContract(contract, RecordsABI, c.caller, nil, nil)
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := bound.Call(opts, &out, method, params...); err != nil {
		return "", fmt.Errorf("%s on %s: %w", method, contract.Hex(), err)
	}

	value := *abi.ConvertType(out[0], new(string)).(*string)
	return value, nil
}
