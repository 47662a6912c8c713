// Package ccip decodes and encodes the calldata exchanged in EIP-3668
// (CCIP-Read) requests made by ENS offchain resolvers.
//
// A request's data field is resolve(bytes name, bytes data), where name is
// the DNS wire-format domain and data is the resolver call being answered:
// text, addr, multichain addr or contenthash. Unrecognised selectors decode
// to interfaces.UnknownCall rather than failing.
package ccip
