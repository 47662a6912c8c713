// Package multicoin converts human-readable blockchain addresses to and from
// the binary form stored in ENS multi-coin address records (ENSIP-9 and
// ENSIP-11), keyed by SLIP-44 coin type.
//
// Supported families:
//
//   - Bitcoin-like (BTC, LTC, DOGE): base58Check P2PKH/P2SH and bech32 segwit
//     addresses, encoded as the corresponding scriptPubkey
//   - EVM (ETH, ETC and every ENSIP-11 chain coin type): 20 raw address bytes,
//     with EIP-55 checksum validation of mixed-case input
//   - Solana: base58 32-byte public key
//   - SS58 (DOT, KSM, AZERO): 32-byte public key, with network prefix and
//     blake2b checksum validation
//
// The coin table and the alias table are immutable and safe for concurrent use.
package multicoin
