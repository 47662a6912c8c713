/*
Package httpserver serves the CCIP-Read (EIP-3668) gateway over HTTP.

A request names the resolver contract that raised OffchainLookup (the sender)
and carries resolve(bytes,bytes) calldata. The handler decodes it, resolves
the inner call against the TLD's records contract, signs the result and
returns {"data": "0x..."} where data is abi.encode(bytes result, uint64
expires, bytes signature).

# Gateway endpoints

Served both at the root and under /gateway:

  - GET /{sender}/{data}.json
  - POST / with body {"sender": "0x...", "data": "0x..."}

Malformed requests are answered with 400, names under an unconfigured TLD
with 404 and upstream failures with 500. Error bodies are {"message": "..."}.
All responses carry Access-Control-Allow-Origin: *.

# Health endpoints

  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Mark the server as not ready
  - GET /undrain - Mark the server as ready

# Admin API

When an AdminHandler is passed to New and HTTPServerConfig.AdminAddr is set, a
second listener serves the TLD administration API. Every request must carry
"Authorization: Bearer <token>".

  - GET /admin/tlds - List TLDs and their records contracts
  - PUT /admin/tlds/{tld} - Set the records contract of a TLD
  - DELETE /admin/tlds/{tld} - Remove a TLD
  - POST /admin/tlds/reload - Re-read the TLD configuration from storage

# Example Usage

	cfg := &api.HTTPServerConfig{
		ListenAddr:               ":8080",
		MetricsAddr:              ":8090",
		Log:                      logger,
		DrainDuration:            30 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}

	server, err := httpserver.New(cfg, engine, signer, nil)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	server.RunInBackground()
	defer server.Shutdown()
*/
package httpserver
