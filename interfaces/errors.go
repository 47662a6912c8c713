package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reserved for lookups where absence must be an error
	// rather than an empty answer.
	ErrNotFound = errors.New("not found")

	// ErrUnparsable is returned when a value from the record source cannot be
	// converted to its wire form (malformed address, unsupported coin type).
	ErrUnparsable = errors.New("unparsable")

	// ErrSenderUnparsable is returned for a malformed sender address.
	ErrSenderUnparsable = errors.New("sender unparsable")

	// ErrPayloadUnparsable is returned for malformed request calldata.
	ErrPayloadUnparsable = errors.New("payload unparsable")

	// ErrHashMismatch is returned when the node in the resolver call is not
	// the namehash of the requested domain.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrTLDNotSupported is returned when no records contract is configured
	// for the domain's top-level domain.
	ErrTLDNotSupported = errors.New("TLD not supported")
)

// NotFoundRecordError reports a missing record when absence is treated as an
// error. It matches ErrNotFound with errors.Is.
type NotFoundRecordError struct {
	Key string
}

func (e *NotFoundRecordError) Error() string {
	return fmt.Sprintf("record not found: %s", e.Key)
}

func (e *NotFoundRecordError) Is(target error) bool {
	return target == ErrNotFound
}
