// Package interfaces defines the core types and collaborator contracts of the
// CCIP-Read gateway, separating them from their implementations.
//
// # Resolution Types
//
//   - CCIPRequest: the raw {sender, data} envelope received from a client
//   - ResolverFunctionCall: closed set of decoded resolver calls (TextCall,
//     AddrCall, AddrMultichainCall, ContentHashCall, UnknownCall)
//   - UnresolvedQuery: a decoded request awaiting resolution
//   - UnsignedPayload / SignedResponse: the envelope before and after signing
//
// # Collaborator Interfaces
//
//   - RecordSource: answers text and resolver-address lookups for a domain
//   - TLDRegistry: maps top-level domains to the contract holding their records
//   - Signer: signs 32-byte digests with the gateway key
//   - StorageBackend: fetches the supported-TLD configuration document
//
// # Errors
//
// Sentinel errors (ErrHashMismatch, ErrUnparsable, ...) are shared by every
// layer so the HTTP server can map them to status codes with errors.Is.
package interfaces
