package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/ccip-gateway/api"
	"github.com/ruteri/ccip-gateway/ccip"
	"github.com/ruteri/ccip-gateway/gateway"
	"github.com/ruteri/ccip-gateway/interfaces"
	"github.com/ruteri/ccip-gateway/metrics"
)

const (
	// maxBodySize is the maximum allowed request body size (1MB).
	maxBodySize = 1024 * 1024

	// invalidKind labels requests that failed before a resolver call was decoded.
	invalidKind = "invalid"
)

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Resolver turns a decoded query into an unsigned payload.
type Resolver interface {
	Resolve(ctx context.Context, query *interfaces.UnresolvedQuery) (*interfaces.UnsignedPayload, error)
}

// Handler serves CCIP-Read gateway requests: it decodes the request, resolves
// it, signs the result and writes the EIP-3668 JSON response.
type Handler struct {
	resolver Resolver
	signer   interfaces.Signer
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewHandler creates a new gateway request handler.
//
// Parameters:
//   - resolver: Resolution engine answering decoded queries
//   - signer: Key signing every response
//   - m: Resolution metrics, may be nil
//   - log: Structured logger
func NewHandler(resolver Resolver, signer interfaces.Signer, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		signer:   signer,
		metrics:  m,
		log:      log,
	}
}

// HandleGet serves the GET form of a gateway request.
//
// URL format: GET /{sender}/{data}.json
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	req := interfaces.CCIPRequest{
		Sender: chi.URLParam(r, "sender"),
		Data:   chi.URLParam(r, "data"),
	}
	h.serve(w, r, req)
}

// HandlePost serves the POST form of a gateway request.
//
// URL format: POST /
// Request body: {"sender": "0x...", "data": "0x..."}
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req interfaces.CCIPRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.metrics.ObserveResolution(invalidKind, time.Now(), err)
		writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("invalid request body: %w", err)})
		return
	}
	h.serve(w, r, req)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, req interfaces.CCIPRequest) {
	start := time.Now()
	kind := invalidKind

	data, err := h.handle(r.Context(), req, &kind)
	h.metrics.ObserveResolution(kind, start, err)
	if err != nil {
		reqErr := classifyError(err)
		if reqErr.StatusCode >= http.StatusInternalServerError {
			h.log.Error("Resolution failed", "err", err, "sender", req.Sender, "kind", kind)
		} else {
			h.log.Debug("Rejected request", "err", err, "sender", req.Sender, "kind", kind)
		}
		writeError(w, reqErr)
		return
	}

	writeJSON(w, http.StatusOK, api.GatewayResponse{Data: hexutil.Encode(data)})
}

// handle runs decode, resolve, sign and encode for one request.
func (h *Handler) handle(ctx context.Context, req interfaces.CCIPRequest, kind *string) ([]byte, error) {
	query, err := ccip.DecodeRequest(req)
	if err != nil {
		return nil, err
	}
	*kind = query.Call.Kind()

	payload, err := h.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	signed, err := gateway.Sign(payload, h.signer)
	if err != nil {
		if h.metrics != nil {
			h.metrics.SignatureErrors.Inc()
		}
		return nil, err
	}

	return gateway.EncodeResponse(signed)
}

// classifyError maps resolution errors to HTTP status codes.
func classifyError(err error) *RequestError {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr
	case gateway.IsClientError(err):
		return &RequestError{StatusCode: http.StatusBadRequest, Err: err}
	case errors.Is(err, interfaces.ErrTLDNotSupported):
		return &RequestError{StatusCode: http.StatusNotFound, Err: err}
	default:
		return &RequestError{StatusCode: http.StatusInternalServerError, Err: err}
	}
}

func writeError(w http.ResponseWriter, err *RequestError) {
	writeJSON(w, err.StatusCode, api.ErrorResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
