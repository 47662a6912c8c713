// Package main (cmd/httpserver) runs the CCIP-Read gateway.
//
// On startup the gateway loads its signing key (from --private-key or from
// Vault), reads the TLD table from the first reachable --tld-config location
// and connects to the chain hosting the records contracts. It then serves
// EIP-3668 requests, answering text, addr and contenthash lookups with
// responses signed by the configured key.
//
// TLD configuration is a JSON object mapping TLDs to records contracts:
//
//	{"azero": "0x1111111111111111111111111111111111111111"}
//
// Locations are tried in order and may be plain paths or file://, s3://,
// ipfs:// and vault:// URIs.
//
// Example usage:
//
//	ccip-gateway --rpc-addr=https://rpc.azero.dev \
//	    --listen-addr=0.0.0.0:8080 \
//	    --private-key=$PRIVATE_KEY \
//	    --tld-config=./tlds.json \
//	    --admin-addr=127.0.0.1:8081 --admin-token=$ADMIN_TOKEN
//
// The server shuts down gracefully on SIGINT or SIGTERM.
package main
