package interfaces

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFoundRecordError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &NotFoundRecordError{Key: "avatar"})
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrUnparsable))

	var nf *NotFoundRecordError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "avatar", nf.Key)
	require.Equal(t, "lookup: record not found: avatar", err.Error())
}

func TestCallKinds(t *testing.T) {
	calls := map[ResolverFunctionCall]string{
		TextCall{Key: "avatar"}: "text",
		AddrCall{}:              "addr",
		ContentHashCall{}:       "contenthash",
		UnknownCall{}:           "unknown",
	}
	for call, kind := range calls {
		require.Equal(t, kind, call.Kind())
	}
	require.Equal(t, "addr_multichain", AddrMultichainCall{}.Kind())
}
