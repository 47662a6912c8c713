// Package main (cmd/gateway_client) queries a CCIP-Read gateway directly.
//
// It builds the resolve(bytes,bytes) calldata an ENS client would send after
// an OffchainLookup revert, submits it to the gateway and verifies the
// response signature against the expected signer before printing the result.
//
//	gateway_client --sender=0x... --signer=0x... --name=alice.azero text --key=avatar
package main
