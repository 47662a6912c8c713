// Package gateway implements the CCIP-Read resolution pipeline: the Engine
// turns a decoded query into an unsigned payload by consulting a record
// source, and Sign turns that payload into the signed response an ENS
// offchain resolver verifies on-chain.
//
// The signed message layout matches ENS SignatureVerifier.makeSignatureHash:
//
//	keccak256(0x1900 ‖ target ‖ uint64(expires) ‖ keccak256(request) ‖ keccak256(result))
//
// where target is the resolver contract that sent the request.
package gateway
