package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ccip-gateway/ccip"
	"github.com/ruteri/ccip-gateway/interfaces"
	"github.com/ruteri/ccip-gateway/multicoin"
	"github.com/ruteri/ccip-gateway/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testSender = common.HexToAddress("0x8464135c8F25Da09e49BC8782676a84730C318bC")
	testNow    = time.Unix(1_700_000_000, 0)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(source interfaces.RecordSource) *Engine {
	cfg := DefaultEngineConfig()
	cfg.Now = func() time.Time { return testNow }
	return NewEngine(source, cfg, testLogger())
}

// buildQuery wraps inner in resolve(bytes,bytes) for name and decodes it the
// way the HTTP layer does.
func buildQuery(t *testing.T, name string, inner []byte) (*interfaces.UnresolvedQuery, []byte) {
	t.Helper()
	calldata, err := ccip.EncodeResolve(name, inner)
	require.NoError(t, err)

	query, err := ccip.DecodeRequest(interfaces.CCIPRequest{
		Sender: testSender.Hex(),
		Data:   hexutil.Encode(calldata),
	})
	require.NoError(t, err)
	return query, calldata
}

func textQuery(t *testing.T, name, key string) (*interfaces.UnresolvedQuery, []byte) {
	inner, err := ccip.EncodeTextCall(NameHash(name), key)
	require.NoError(t, err)
	return buildQuery(t, name, inner)
}

func addrMultichainQuery(t *testing.T, name string, coinType int64) (*interfaces.UnresolvedQuery, []byte) {
	inner, err := ccip.EncodeAddrMultichainCall(NameHash(name), big.NewInt(coinType))
	require.NoError(t, err)
	return buildQuery(t, name, inner)
}

func unpackString(t *testing.T, data []byte) string {
	values, err := stringResult.Unpack(data)
	require.NoError(t, err)
	return values[0].(string)
}

func unpackBytes(t *testing.T, data []byte) []byte {
	values, err := bytesResult.Unpack(data)
	require.NoError(t, err)
	return values[0].([]byte)
}

func TestResolveText(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	source.On("Text", mock.Anything, "alice.azero", "avatar").Return("https://example.com/alice.png", nil).Once()
	source.On("Text", mock.Anything, "alice.azero", "description").Return("", nil).Once()

	query, calldata := textQuery(t, "alice.azero", "avatar")
	payload, err := engine.Resolve(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/alice.png", unpackString(t, payload.Data))
	assert.Equal(t, uint64(testNow.Unix())+3600, payload.Expires)
	assert.Equal(t, crypto.Keccak256Hash(calldata), payload.RequestHash)
	assert.Equal(t, crypto.Keccak256Hash(payload.Data), payload.ResultHash)
	assert.Equal(t, testSender, payload.Sender)

	query, _ = textQuery(t, "alice.azero", "description")
	payload, err = engine.Resolve(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "", unpackString(t, payload.Data))

	source.AssertExpectations(t)
}

func TestResolveAddr(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	owner := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	source.On("Text", mock.Anything, "alice.azero", "address.eth").Return(owner.Hex(), nil).Once()
	source.On("Text", mock.Anything, "bob.azero", "address.eth").Return("", nil).Once()
	source.On("Text", mock.Anything, "bob.azero", "address.60").Return("", nil).Once()

	inner, err := ccip.EncodeAddrCall(NameHash("alice.azero"))
	require.NoError(t, err)
	query, _ := buildQuery(t, "alice.azero", inner)

	payload, err := engine.Resolve(context.Background(), query)
	require.NoError(t, err)
	values, err := addressResult.Unpack(payload.Data)
	require.NoError(t, err)
	assert.Equal(t, owner, values[0].(common.Address))

	inner, err = ccip.EncodeAddrCall(NameHash("bob.azero"))
	require.NoError(t, err)
	query, _ = buildQuery(t, "bob.azero", inner)

	payload, err = engine.Resolve(context.Background(), query)
	require.NoError(t, err)
	values, err = addressResult.Unpack(payload.Data)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, values[0].(common.Address))

	source.AssertExpectations(t)
}

func TestResolveAddrRejectsNonHexValue(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	source.On("Text", mock.Anything, "alice.azero", "address.eth").Return("not-an-address", nil).Once()

	inner, err := ccip.EncodeAddrCall(NameHash("alice.azero"))
	require.NoError(t, err)
	query, _ := buildQuery(t, "alice.azero", inner)

	_, err = engine.Resolve(context.Background(), query)
	require.ErrorIs(t, err, interfaces.ErrUnparsable)
}

func TestResolveAddrMultichain(t *testing.T) {
	btcAddress := "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	btcScript, err := multicoin.Encode(multicoin.Bitcoin, btcAddress)
	require.NoError(t, err)

	t.Run("alias before numeric key", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		mock.InOrder(
			source.On("Text", mock.Anything, "bob.azero", "address.btc").Return("", nil).Once(),
			source.On("Text", mock.Anything, "bob.azero", "address.0").Return(btcAddress, nil).Once(),
		)

		query, _ := addrMultichainQuery(t, "bob.azero", 0)
		payload, err := engine.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, btcScript, unpackBytes(t, payload.Data))
		source.AssertExpectations(t)
	})

	t.Run("alias hit skips numeric key", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		source.On("Text", mock.Anything, "bob.azero", "address.btc").Return(btcAddress, nil).Once()

		query, _ := addrMultichainQuery(t, "bob.azero", 0)
		payload, err := engine.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, btcScript, unpackBytes(t, payload.Data))
		source.AssertNotCalled(t, "Text", mock.Anything, "bob.azero", "address.0")
	})

	t.Run("native coin type reads resolver address", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		source.On("ResolverAddress", mock.Anything, "alice.azero").Return("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", nil).Once()

		query, _ := addrMultichainQuery(t, "alice.azero", 643)
		payload, err := engine.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t,
			common.FromHex("0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"),
			unpackBytes(t, payload.Data))
		source.AssertNotCalled(t, "Text", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unset ethereum address is the zero address", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		source.On("Text", mock.Anything, "carol.azero", mock.Anything).Return("", nil)

		query, _ := addrMultichainQuery(t, "carol.azero", 60)
		payload, err := engine.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 20), unpackBytes(t, payload.Data))
	})

	t.Run("unset address is empty", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		source.On("Text", mock.Anything, "carol.azero", mock.Anything).Return("", nil)

		for _, coinType := range []int64{0, 501, 9999} {
			query, _ := addrMultichainQuery(t, "carol.azero", coinType)
			payload, err := engine.Resolve(context.Background(), query)
			require.NoError(t, err)
			assert.Empty(t, unpackBytes(t, payload.Data), coinType)
		}
		source.AssertCalled(t, "Text", mock.Anything, "carol.azero", "address.9999")
	})

	t.Run("unencodable address", func(t *testing.T) {
		source := new(registry.MockRecordSource)
		engine := newTestEngine(source)

		source.On("Text", mock.Anything, "dave.azero", "address.sol").Return("not base58 0OIl", nil)

		query, _ := addrMultichainQuery(t, "dave.azero", 501)
		_, err := engine.Resolve(context.Background(), query)
		require.ErrorIs(t, err, interfaces.ErrUnparsable)
	})
}

func TestResolveContentHash(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	contenthash := "0xe30101701220" + "6e6ff7950a36187a801613426e858dce686cd7d7e3c0fc42ee0330072d245c95"
	source.On("Text", mock.Anything, "alice.azero", ContentHashKey).Return(contenthash, nil).Once()
	source.On("Text", mock.Anything, "bob.azero", ContentHashKey).Return("", nil).Once()
	source.On("Text", mock.Anything, "carol.azero", ContentHashKey).Return("ipfs://Qm", nil).Once()

	for name, expected := range map[string][]byte{
		"alice.azero": common.FromHex(contenthash),
		"bob.azero":   {},
	} {
		inner, err := ccip.EncodeContentHashCall(NameHash(name))
		require.NoError(t, err)
		query, _ := buildQuery(t, name, inner)

		payload, err := engine.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, expected, unpackBytes(t, payload.Data), name)
	}

	inner, err := ccip.EncodeContentHashCall(NameHash("carol.azero"))
	require.NoError(t, err)
	query, _ := buildQuery(t, "carol.azero", inner)
	_, err = engine.Resolve(context.Background(), query)
	require.ErrorIs(t, err, interfaces.ErrUnparsable)
}

func TestResolveHashMismatch(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	calls := map[string]func(node common.Hash) ([]byte, error){
		"text":        func(node common.Hash) ([]byte, error) { return ccip.EncodeTextCall(node, "avatar") },
		"addr":        ccip.EncodeAddrCall,
		"contenthash": ccip.EncodeContentHashCall,
		"addr_multichain": func(node common.Hash) ([]byte, error) {
			return ccip.EncodeAddrMultichainCall(node, big.NewInt(0))
		},
	}

	for kind, encode := range calls {
		t.Run(kind, func(t *testing.T) {
			inner, err := encode(NameHash("bob.azero"))
			require.NoError(t, err)
			query, _ := buildQuery(t, "alice.azero", inner)

			_, err = engine.Resolve(context.Background(), query)
			require.ErrorIs(t, err, interfaces.ErrHashMismatch)
			assert.True(t, IsClientError(err))
		})
	}

	source.AssertNotCalled(t, "Text", mock.Anything, mock.Anything, mock.Anything)
	source.AssertNotCalled(t, "ResolverAddress", mock.Anything, mock.Anything)
}

func TestResolveUnknownSelectorIsSilentlyEmpty(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	// pubkey(bytes32)
	inner := append(common.FromHex("0xc8690233"), NameHash("alice.azero").Bytes()...)
	query, calldata := buildQuery(t, "alice.azero", inner)
	require.Equal(t, "unknown", query.Call.Kind())

	payload, err := engine.Resolve(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, payload.Data)
	assert.Equal(t, crypto.Keccak256Hash(calldata), payload.RequestHash)
	assert.Equal(t, crypto.Keccak256Hash(nil), payload.ResultHash)
	source.AssertNotCalled(t, "Text", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveRecordSourceErrors(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	rpcErr := errors.New("rpc unavailable")
	source.On("Text", mock.Anything, "alice.azero", "avatar").Return("", rpcErr).Once()
	source.On("Text", mock.Anything, "alice.unknown", "avatar").Return("", interfaces.ErrTLDNotSupported).Once()

	query, _ := textQuery(t, "alice.azero", "avatar")
	_, err := engine.Resolve(context.Background(), query)
	require.ErrorIs(t, err, rpcErr)
	assert.False(t, IsClientError(err))

	query, _ = textQuery(t, "alice.unknown", "avatar")
	_, err = engine.Resolve(context.Background(), query)
	require.ErrorIs(t, err, interfaces.ErrTLDNotSupported)
}

func TestResolveRejectsMalformedEnvelope(t *testing.T) {
	source := new(registry.MockRecordSource)
	engine := newTestEngine(source)

	query, _ := textQuery(t, "alice.azero", "avatar")

	badSender := *query
	badSender.Request.Sender = "0x1234"
	_, err := engine.Resolve(context.Background(), &badSender)
	require.ErrorIs(t, err, interfaces.ErrSenderUnparsable)

	badData := *query
	badData.Request.Data = "0xzz"
	_, err = engine.Resolve(context.Background(), &badData)
	require.ErrorIs(t, err, interfaces.ErrPayloadUnparsable)

	source.AssertNotCalled(t, "Text", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(new(registry.MockRecordSource), EngineConfig{NativeCoinType: multicoin.AlephZero}, nil)
	assert.Equal(t, DefaultTTL, engine.cfg.TTL)
	assert.NotNil(t, engine.cfg.Now)
	assert.Equal(t, multicoin.DefaultAliases, engine.cfg.Aliases)
	assert.NotNil(t, engine.log)
}
