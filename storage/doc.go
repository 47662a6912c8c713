// Package storage fetches the gateway's TLD configuration document from
// pluggable backends.
//
// Each backend points at exactly one document and is created from a location
// URI:
//
//   - file:///etc/ccip-gateway/tlds.json (a bare path is treated the same way)
//   - s3://[ACCESS_KEY:SECRET_KEY@]bucket/path/tlds.json?region=us-west-2&endpoint=https://minio:9000
//   - ipfs://127.0.0.1:5001/QmHash/tlds.json
//   - vault://vault.example.com:8200/secret/ccip-gateway?field=tlds&scheme=https
//
// Several URIs can be combined with CreateMultiBackend, which fetches from the
// first available backend that returns the document.
package storage
