package gateway

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ccip-gateway/interfaces"
)

var (
	// ErrSignatureMismatch is returned when a response signature does not
	// recover to the expected signer.
	ErrSignatureMismatch = errors.New("signature does not match signer")

	// ErrResponseExpired is returned when verifying a response past its expiry.
	ErrResponseExpired = errors.New("response expired")
)

// signatureHashPrefix is the EIP-191 version 0x00 marker ("data with
// intended validator") used by the ENS SignatureVerifier.
var signatureHashPrefix = []byte{0x19, 0x00}

var (
	uint64Ty, _ = abi.NewType("uint64", "", nil)

	responseArgs = abi.Arguments{
		{Name: "result", Type: bytesTy},
		{Name: "expires", Type: uint64Ty},
		{Name: "sig", Type: bytesTy},
	}
)

// MakeSignatureHash returns the digest the verifier reconstructs:
// keccak256(0x19 0x00 ‖ target[20] ‖ expires[8, big-endian] ‖ requestHash[32] ‖ resultHash[32]).
func MakeSignatureHash(target common.Address, expires uint64, requestHash, resultHash common.Hash) common.Hash {
	var expiresBytes [8]byte
	binary.BigEndian.PutUint64(expiresBytes[:], expires)

	return crypto.Keccak256Hash(
		signatureHashPrefix,
		target.Bytes(),
		expiresBytes[:],
		requestHash.Bytes(),
		resultHash.Bytes(),
	)
}

// Sign signs payload for its sender and returns the response to transmit.
func Sign(payload *interfaces.UnsignedPayload, signer interfaces.Signer) (*interfaces.SignedResponse, error) {
	hash := MakeSignatureHash(payload.Sender, payload.Expires, payload.RequestHash, payload.ResultHash)

	sig, err := signer.SignHash(hash)
	if err != nil {
		return nil, fmt.Errorf("could not sign response: %w", err)
	}

	return &interfaces.SignedResponse{
		Data:      payload.Data,
		Expires:   payload.Expires,
		Signature: sig,
	}, nil
}

// EncodeResponse ABI-encodes resp as (bytes result, uint64 expires, bytes sig).
func EncodeResponse(resp *interfaces.SignedResponse) ([]byte, error) {
	return responseArgs.Pack(resp.Data, resp.Expires, resp.Signature)
}

// DecodeResponse is the inverse of EncodeResponse.
func DecodeResponse(data []byte) (*interfaces.SignedResponse, error) {
	values, err := responseArgs.Unpack(data)
	if err != nil {
		return nil, err
	}

	return &interfaces.SignedResponse{
		Data:      values[0].([]byte),
		Expires:   values[1].(uint64),
		Signature: values[2].([]byte),
	}, nil
}

// RecoverSigner returns the address that signed resp for target and the
// given request calldata hash.
func RecoverSigner(resp *interfaces.SignedResponse, target common.Address, requestHash common.Hash) (common.Address, error) {
	if len(resp.Signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(resp.Signature))
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, resp.Signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	hash := MakeSignatureHash(target, resp.Expires, requestHash, crypto.Keccak256Hash(resp.Data))
	pubkey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}

// VerifyResponse checks resp the way the on-chain resolver does: the
// signature must recover to signer and the response must not have expired at now.
func VerifyResponse(resp *interfaces.SignedResponse, target common.Address, requestHash common.Hash, signer common.Address, now time.Time) error {
	recovered, err := RecoverSigner(resp, target, requestHash)
	if err != nil {
		return err
	}
	if recovered != signer {
		return fmt.Errorf("%w: recovered %s, expected %s", ErrSignatureMismatch, recovered.Hex(), signer.Hex())
	}
	if uint64(now.Unix()) > resp.Expires {
		return ErrResponseExpired
	}
	return nil
}
