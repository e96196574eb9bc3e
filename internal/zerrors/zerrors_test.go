package zerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsKindMatchesWrappedKind(t *testing.T) {
	err := Archive("restoring x", ReasonOther, errors.New("boom"))
	require.True(t, IsKind(err, KindArchive))
	require.False(t, IsKind(err, KindIO))
}

func TestConstructorsReturnNilForNilErr(t *testing.T) {
	require.NoError(t, IO("op", nil))
	require.NoError(t, Archive("op", ReasonNone, nil))
	require.NoError(t, Invocation("op", nil))
	require.NoError(t, Configuration("op", nil))
}

func TestErrorIsMatchesByKindAndReason(t *testing.T) {
	err := Archive("sanitize path", ReasonInvalidInput, errors.New("boom"))

	require.True(t, errors.Is(err, &Error{Kind: KindArchive}))
	require.True(t, errors.Is(err, &Error{Kind: KindArchive, Reason: ReasonInvalidInput}))
	require.False(t, errors.Is(err, &Error{Kind: KindArchive, Reason: ReasonPermissionDenied}))
	require.False(t, errors.Is(err, &Error{Kind: KindIO}))
}

func TestUnwrapExposesUnderlyingError(t *testing.T) {
	cause := errors.New("boom")
	err := IO("op", cause)

	require.ErrorIs(t, err, cause)
}
