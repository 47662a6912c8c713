// Package kms provides the signing key used by the gateway.
//
// A LocalSigner holds a secp256k1 private key in memory and produces raw
// (unprefixed) 65-byte signatures with V in {27, 28}, which is the format
// offchain resolver contracts recover with ecrecover. The key is loaded
// either from a hex string (flag or environment) or from a Vault KV v2
// secret with LoadVaultSigner.
package kms
