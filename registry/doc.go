// Package registry reads ENS-style records from per-TLD records contracts.
//
// A TLDTable maps top-level domains such as "azero" to the address of the
// records contract that stores names under that TLD. RecordStore splits a
// domain into its first label and TLD, looks up the contract and performs a
// single read-only contract call per lookup through OnchainRecordsClient:
//
//	getRecord(string name, string key) returns (string)
//	getAddress(string name) returns (string)
//
// Unset records come back as empty strings. A domain whose TLD is not in the
// table fails with interfaces.ErrTLDNotSupported before any call is made.
package registry
