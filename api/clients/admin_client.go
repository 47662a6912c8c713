package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/ccip-gateway/api"
)

// AdminClient manages the gateway's TLD table through the admin API.
type AdminClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAdminClient creates a new admin client.
//
// Parameters:
//   - baseURL: The base URL of the admin API (e.g., "http://localhost:8081")
//   - token: The bearer token configured on the gateway
//   - timeout: Request timeout duration (optional, default 30 seconds)
func NewAdminClient(baseURL, token string, timeout ...time.Duration) *AdminClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &AdminClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// ListTLDs returns the configured TLDs and their records contracts.
func (c *AdminClient) ListTLDs(ctx context.Context) (map[string]common.Address, error) {
	var parsed api.TLDsResponse
	if err := c.do(ctx, http.MethodGet, "/admin/tlds", nil, &parsed); err != nil {
		return nil, err
	}

	tlds := make(map[string]common.Address, len(parsed.TLDs))
	for tld, contract := range parsed.TLDs {
		tlds[tld] = common.HexToAddress(contract)
	}
	return tlds, nil
}

// SetTLD registers or replaces the records contract for tld.
func (c *AdminClient) SetTLD(ctx context.Context, tld string, contract common.Address) error {
	body := api.TLDUpdateRequest{Contract: contract.Hex()}
	return c.do(ctx, http.MethodPut, "/admin/tlds/"+url.PathEscape(tld), body, nil)
}

// DeleteTLD removes tld from the table.
func (c *AdminClient) DeleteTLD(ctx context.Context, tld string) error {
	return c.do(ctx, http.MethodDelete, "/admin/tlds/"+url.PathEscape(tld), nil, nil)
}

// Reload makes the gateway re-read its TLD configuration from storage and
// returns the resulting table.
func (c *AdminClient) Reload(ctx context.Context) (map[string]common.Address, error) {
	var parsed api.TLDsResponse
	if err := c.do(ctx, http.MethodPost, "/admin/tlds/reload", nil, &parsed); err != nil {
		return nil, err
	}

	tlds := make(map[string]common.Address, len(parsed.TLDs))
	for tld, contract := range parsed.TLDs {
		tlds[tld] = common.HexToAddress(contract)
	}
	return tlds, nil
}

func (c *AdminClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return readStatusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse %s response: %w", path, err)
	}
	return nil
}
