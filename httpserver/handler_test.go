package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ruteri/ccip-gateway/api"
	"github.com/ruteri/ccip-gateway/api/clients"
	"github.com/ruteri/ccip-gateway/ccip"
	"github.com/ruteri/ccip-gateway/gateway"
	"github.com/ruteri/ccip-gateway/interfaces"
	"github.com/ruteri/ccip-gateway/kms"
	"github.com/ruteri/ccip-gateway/metrics"
	"github.com/ruteri/ccip-gateway/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var resolverContract = common.HexToAddress("0x8464135c8F25Da09e49BC8782676a84730C318bC")

type testGateway struct {
	server *Server
	http   *httptest.Server
	source *registry.MockRecordSource
	signer *kms.LocalSigner
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := kms.NewLocalSigner(key)

	source := new(registry.MockRecordSource)
	engine := gateway.NewEngine(source, gateway.DefaultEngineConfig(), logger)

	srv, err := New(&api.HTTPServerConfig{Log: logger}, engine, signer, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testGateway{server: srv, http: ts, source: source, signer: signer}
}

func TestGatewayEndToEnd(t *testing.T) {
	gw := newTestGateway(t)
	gw.source.On("Text", mock.Anything, "alice.azero", "avatar").Return("https://example.com/alice.png", nil)
	gw.source.On("Text", mock.Anything, "alice.azero", "address.eth").Return("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", nil)
	gw.source.On("ResolverAddress", mock.Anything, "alice.azero").Return("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", nil)

	for _, tt := range []struct {
		name    string
		baseURL string
		usePost bool
	}{
		{"GET root", gw.http.URL, false},
		{"POST root", gw.http.URL, true},
		{"GET /gateway", gw.http.URL + "/gateway", false},
		{"POST /gateway", gw.http.URL + "/gateway", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			client := clients.NewGatewayClient(tt.baseURL)
			client.UsePost = tt.usePost
			ctx := context.Background()

			avatar, err := client.ResolveText(ctx, resolverContract, gw.signer.Address(), "alice.azero", "avatar")
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/alice.png", avatar)

			addr, err := client.ResolveAddr(ctx, resolverContract, gw.signer.Address(), "alice.azero")
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), addr)

			native, err := client.ResolveAddrMultichain(ctx, resolverContract, gw.signer.Address(), "alice.azero", big.NewInt(643))
			require.NoError(t, err)
			assert.Equal(t, common.FromHex("0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"), native)
		})
	}

	t.Run("wrong signer is rejected by the client", func(t *testing.T) {
		client := clients.NewGatewayClient(gw.http.URL)
		_, err := client.ResolveText(context.Background(), resolverContract, common.HexToAddress("0x01"), "alice.azero", "avatar")
		require.ErrorIs(t, err, gateway.ErrSignatureMismatch)
	})

	// Five text lookups reached the gateway, including the one the client rejected
	m := gw.server.handler.metrics
	assert.Equal(t, float64(5), testutil.ToFloat64(m.Resolutions.WithLabelValues("text", metrics.OutcomeOK)))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.Resolutions.WithLabelValues("addr_multichain", metrics.OutcomeOK)))
}

func encodeTextRequest(t *testing.T, name string, node common.Hash, key string) []byte {
	inner, err := ccip.EncodeTextCall(node, key)
	require.NoError(t, err)
	calldata, err := ccip.EncodeResolve(name, inner)
	require.NoError(t, err)
	return calldata
}

func TestGatewayErrorStatusCodes(t *testing.T) {
	gw := newTestGateway(t)
	gw.source.On("Text", mock.Anything, "alice.eth", "avatar").Return("", interfaces.ErrTLDNotSupported)
	gw.source.On("Text", mock.Anything, "alice.azero", "avatar").Return("", errors.New("rpc unavailable"))

	validData := hexutil.Encode(encodeTextRequest(t, "alice.azero", gateway.NameHash("alice.azero"), "avatar"))
	sender := strings.ToLower(resolverContract.Hex())

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"malformed sender", "/0x1234/" + validData + ".json", http.StatusBadRequest},
		{"non-hex data", "/" + sender + "/0xnothex.json", http.StatusBadRequest},
		{"not a resolve call", "/" + sender + "/0x12345678.json", http.StatusBadRequest},
		{"hash mismatch", "/" + sender + "/" + hexutil.Encode(encodeTextRequest(t, "alice.azero", gateway.NameHash("bob.azero"), "avatar")) + ".json", http.StatusBadRequest},
		{"unsupported TLD", "/" + sender + "/" + hexutil.Encode(encodeTextRequest(t, "alice.eth", gateway.NameHash("alice.eth"), "avatar")) + ".json", http.StatusNotFound},
		{"record source failure", "/" + sender + "/" + validData + ".json", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(gw.http.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Message)
		})
	}

	t.Run("client surfaces status", func(t *testing.T) {
		client := clients.NewGatewayClient(gw.http.URL)
		_, err := client.ResolveText(context.Background(), resolverContract, gw.signer.Address(), "alice.eth", "avatar")

		var statusErr *clients.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, statusErr.Message, interfaces.ErrTLDNotSupported.Error())
	})

	t.Run("invalid POST body", func(t *testing.T) {
		resp, err := http.Post(gw.http.URL+"/", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	m := gw.server.handler.metrics
	assert.Equal(t, float64(4), testutil.ToFloat64(m.Resolutions.WithLabelValues("text", metrics.OutcomeError)))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.Resolutions.WithLabelValues("invalid", metrics.OutcomeError)))
}

func TestGatewayUnknownSelectorIsSilentlyEmpty(t *testing.T) {
	gw := newTestGateway(t)

	inner := append(common.FromHex("0xc8690233"), gateway.NameHash("alice.azero").Bytes()...)
	calldata, err := ccip.EncodeResolve("alice.azero", inner)
	require.NoError(t, err)

	client := clients.NewGatewayClient(gw.http.URL)
	resp, err := client.Query(context.Background(), resolverContract, calldata)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	require.NoError(t, gateway.VerifyResponse(resp, resolverContract, crypto.Keccak256Hash(calldata), gw.signer.Address(), gateway.DefaultEngineConfig().Now()))

	gw.source.AssertNotCalled(t, "Text", mock.Anything, mock.Anything, mock.Anything)
}

func TestHealthEndpoints(t *testing.T) {
	gw := newTestGateway(t)

	get := func(path string) (int, string) {
		resp, err := http.Get(gw.http.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body["status"]
	}

	status, body := get("/livez")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body)

	status, body = get("/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body)

	_, body = get("/drain")
	assert.Equal(t, "draining", body)
	_, body = get("/drain")
	assert.Equal(t, "already draining", body)

	status, body = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready", body)

	_, body = get("/undrain")
	assert.Equal(t, "ready", body)
	_, body = get("/undrain")
	assert.Equal(t, "already ready", body)

	status, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, status)
}

func TestCORS(t *testing.T) {
	gw := newTestGateway(t)

	req, err := http.NewRequest(http.MethodOptions, gw.http.URL+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	resp, err = http.Get(gw.http.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
