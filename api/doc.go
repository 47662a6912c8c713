/*
Package api holds the wire types and server configuration shared by the
gateway's HTTP server and its clients.

The gateway speaks the EIP-3668 (CCIP-Read) gateway protocol:

	GET  /{sender}/{data}.json
	POST /                      {"sender": "0x...", "data": "0x..."}

Both routes are also served under /gateway. A successful lookup returns
GatewayResponse; failures return ErrorResponse with status 400 for malformed
requests, 404 for unsupported TLDs and 500 for everything else.

A separate admin listener manages the TLD table:

	GET    /admin/tlds
	PUT    /admin/tlds/{tld}      TLDUpdateRequest
	DELETE /admin/tlds/{tld}
	POST   /admin/tlds/reload

Every admin request must carry "Authorization: Bearer <token>".

The clients subpackage contains Go clients for both APIs.
*/
package api
