package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/ccip-gateway/api"
	"github.com/ruteri/ccip-gateway/interfaces"
)

// ErrReloadUnavailable is returned by reload when no configuration source is set.
var ErrReloadUnavailable = errors.New("no TLD configuration source configured")

// TLDStore is a TLD registry that can also be replaced wholesale on reload.
type TLDStore interface {
	interfaces.TLDRegistry
	Replace(tlds map[string]common.Address)
}

// TLDLoader fetches the current TLD configuration from its source.
type TLDLoader func(ctx context.Context) (map[string]common.Address, error)

// AdminHandler serves the TLD administration API.
//
// Every request must carry "Authorization: Bearer <token>". Changes made
// through PUT and DELETE live in memory only; a reload replaces them with the
// contents of the configuration source.
type AdminHandler struct {
	log    *slog.Logger
	token  string
	tlds   TLDStore
	loader TLDLoader
}

// NewAdminHandler creates a new admin handler.
//
// Parameters:
//   - log: Structured logger
//   - token: Bearer token required on every request
//   - tlds: The live TLD table used by the gateway
//   - loader: Source used by POST /admin/tlds/reload, may be nil
func NewAdminHandler(log *slog.Logger, token string, tlds TLDStore, loader TLDLoader) *AdminHandler {
	return &AdminHandler{
		log:    log,
		token:  token,
		tlds:   tlds,
		loader: loader,
	}
}

// AdminRouter returns a router to be mounted under /admin.
func (h *AdminHandler) AdminRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requireToken)

	r.Get("/tlds", h.handleList)
	r.Post("/tlds/reload", h.handleReload)
	r.Put("/tlds/{tld}", h.handleUpsert)
	r.Delete("/tlds/{tld}", h.handleDelete)

	return r
}

// Reload replaces the TLD table with the contents of the configuration source.
func (h *AdminHandler) Reload(ctx context.Context) error {
	if h.loader == nil {
		return ErrReloadUnavailable
	}

	tlds, err := h.loader(ctx)
	if err != nil {
		return err
	}

	h.tlds.Replace(tlds)
	h.log.Info("Reloaded TLD configuration", "tlds", len(tlds))
	return nil
}

func (h *AdminHandler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || h.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			h.log.Warn("Authentication failed", "path", r.URL.Path, "remoteAddr", r.RemoteAddr)
			writeError(w, &RequestError{StatusCode: http.StatusUnauthorized, Err: errors.New("unauthorized")})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleList returns the current TLD table.
//
// Endpoint: GET /admin/tlds
func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// handleUpsert registers or replaces the records contract of a TLD.
//
// Endpoint: PUT /admin/tlds/{tld}
// Body: {"contract": "0x..."}
func (h *AdminHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	tld := chi.URLParam(r, "tld")

	var req api.TLDUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("invalid request body: %w", err)})
		return
	}

	if !common.IsHexAddress(req.Contract) {
		writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("invalid contract address %q", req.Contract)})
		return
	}

	contract := common.HexToAddress(req.Contract)
	h.tlds.Upsert(tld, &contract)
	h.log.Info("TLD updated", "tld", tld, "contract", contract.Hex())

	writeJSON(w, http.StatusOK, h.snapshot())
}

// handleDelete removes a TLD.
//
// Endpoint: DELETE /admin/tlds/{tld}
func (h *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	tld := chi.URLParam(r, "tld")
	if _, ok := h.tlds.Get(tld); !ok {
		writeError(w, &RequestError{StatusCode: http.StatusNotFound, Err: fmt.Errorf("%w: %q", interfaces.ErrTLDNotSupported, tld)})
		return
	}

	h.tlds.Upsert(tld, nil)
	h.log.Info("TLD removed", "tld", tld)

	writeJSON(w, http.StatusOK, h.snapshot())
}

// handleReload re-reads the TLD configuration source.
//
// Endpoint: POST /admin/tlds/reload
func (h *AdminHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.Reload(r.Context()); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrReloadUnavailable) {
			status = http.StatusConflict
		}
		h.log.Error("TLD reload failed", "err", err)
		writeError(w, &RequestError{StatusCode: status, Err: err})
		return
	}

	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *AdminHandler) snapshot() api.TLDsResponse {
	all := h.tlds.All()
	resp := api.TLDsResponse{TLDs: make(map[string]string, len(all))}
	for tld, contract := range all {
		resp.TLDs[tld] = contract.Hex()
	}
	return resp
}
