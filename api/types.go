package api

// GatewayResponse is the body of a successful CCIP-Read response.
type GatewayResponse struct {
	// Data is the 0x-hex ABI encoding of (bytes result, uint64 expires, bytes signature).
	Data string `json:"data"`
}

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// TLDUpdateRequest is the body of PUT /admin/tlds/{tld}.
type TLDUpdateRequest struct {
	// Contract is the 0x-hex address of the records contract for the TLD.
	Contract string `json:"contract"`
}

// TLDsResponse lists the configured TLDs and their records contracts.
type TLDsResponse struct {
	TLDs map[string]string `json:"tlds"`
}
