package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ccip-gateway/api"
	"github.com/ruteri/ccip-gateway/ccip"
	"github.com/ruteri/ccip-gateway/gateway"
	"github.com/ruteri/ccip-gateway/interfaces"
)

var (
	stringTy, _  = abi.NewType("string", "", nil)
	addressTy, _ = abi.NewType("address", "", nil)
	bytesTy, _   = abi.NewType("bytes", "", nil)
)

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// GatewayClient queries a CCIP-Read gateway and verifies its signed responses
// the way an offchain resolver contract would.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client

	// UsePost sends requests as POST with a JSON body instead of GET.
	UsePost bool

	// Now is used to check response expiry; defaults to time.Now.
	Now func() time.Time
}

// NewGatewayClient creates a client for the gateway at baseURL, e.g.
// "http://localhost:8080" or "https://gateway.example.com/gateway".
func NewGatewayClient(baseURL string, timeout ...time.Duration) *GatewayClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &GatewayClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
		Now: time.Now,
	}
}

// Query sends raw calldata on behalf of sender and returns the decoded,
// unverified response.
func (c *GatewayClient) Query(ctx context.Context, sender common.Address, calldata []byte) (*interfaces.SignedResponse, error) {
	var req *http.Request
	var err error

	if c.UsePost {
		body, err := json.Marshal(interfaces.CCIPRequest{
			Sender: sender.Hex(),
			Data:   hexutil.Encode(calldata),
		})
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		url := fmt.Sprintf("%s/%s/%s.json", c.baseURL, strings.ToLower(sender.Hex()), hexutil.Encode(calldata))
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readStatusError(resp)
	}

	var parsed api.GatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("could not parse gateway response: %w", err)
	}

	data, err := hexutil.Decode(parsed.Data)
	if err != nil {
		return nil, fmt.Errorf("could not decode gateway response data: %w", err)
	}

	return gateway.DecodeResponse(data)
}

// Resolve wraps inner in resolve(bytes,bytes) for name, queries the gateway
// and returns the ABI-encoded result once the signature has been checked
// against signer.
func (c *GatewayClient) Resolve(ctx context.Context, sender, signer common.Address, name string, inner []byte) ([]byte, error) {
	calldata, err := ccip.EncodeResolve(name, inner)
	if err != nil {
		return nil, err
	}

	resp, err := c.Query(ctx, sender, calldata)
	if err != nil {
		return nil, err
	}

	if err := gateway.VerifyResponse(resp, sender, crypto.Keccak256Hash(calldata), signer, c.Now()); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ResolveText resolves text(namehash(name), key).
func (c *GatewayClient) ResolveText(ctx context.Context, sender, signer common.Address, name, key string) (string, error) {
	inner, err := ccip.EncodeTextCall(gateway.NameHash(name), key)
	if err != nil {
		return "", err
	}

	result, err := c.Resolve(ctx, sender, signer, name, inner)
	if err != nil {
		return "", err
	}

	values, err := abi.Arguments{{Type: stringTy}}.Unpack(result)
	if err != nil {
		return "", fmt.Errorf("could not decode text result: %w", err)
	}
	return values[0].(string), nil
}

// ResolveAddr resolves addr(namehash(name)).
func (c *GatewayClient) ResolveAddr(ctx context.Context, sender, signer common.Address, name string) (common.Address, error) {
	inner, err := ccip.EncodeAddrCall(gateway.NameHash(name))
	if err != nil {
		return common.Address{}, err
	}

	result, err := c.Resolve(ctx, sender, signer, name, inner)
	if err != nil {
		return common.Address{}, err
	}

	values, err := abi.Arguments{{Type: addressTy}}.Unpack(result)
	if err != nil {
		return common.Address{}, fmt.Errorf("could not decode addr result: %w", err)
	}
	return values[0].(common.Address), nil
}

// ResolveAddrMultichain resolves addr(namehash(name), coinType) and returns
// the binary address.
func (c *GatewayClient) ResolveAddrMultichain(ctx context.Context, sender, signer common.Address, name string, coinType *big.Int) ([]byte, error) {
	inner, err := ccip.EncodeAddrMultichainCall(gateway.NameHash(name), coinType)
	if err != nil {
		return nil, err
	}
	return c.resolveBytes(ctx, sender, signer, name, inner)
}

// ResolveContentHash resolves contenthash(namehash(name)).
func (c *GatewayClient) ResolveContentHash(ctx context.Context, sender, signer common.Address, name string) ([]byte, error) {
	inner, err := ccip.EncodeContentHashCall(gateway.NameHash(name))
	if err != nil {
		return nil, err
	}
	return c.resolveBytes(ctx, sender, signer, name, inner)
}

func (c *GatewayClient) resolveBytes(ctx context.Context, sender, signer common.Address, name string, inner []byte) ([]byte, error) {
	result, err := c.Resolve(ctx, sender, signer, name, inner)
	if err != nil {
		return nil, err
	}

	values, err := abi.Arguments{{Type: bytesTy}}.Unpack(result)
	if err != nil {
		return nil, fmt.Errorf("could not decode bytes result: %w", err)
	}
	return values[0].([]byte), nil
}

func readStatusError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	var parsed api.ErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Message == "" {
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: parsed.Message}
}
