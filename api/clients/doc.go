// Package clients provides Go clients for the gateway's public CCIP-Read API
// and its TLD administration API.
//
// GatewayClient builds resolve(bytes,bytes) calldata for a name and record,
// sends it to the gateway over GET or POST, and verifies the signed response
// against the expected signer, target and request hash before returning the
// decoded record. AdminClient wraps the bearer-authenticated /admin/tlds
// endpoints.
package clients
