package errors_test

import (
	"io"
	"testing"

	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "read %s", "creds.json"))

	err := errors.Wrapf(io.ErrUnexpectedEOF, "%w: read %s", errors.ErrStorage, "creds.json")
	require.EqualError(t, err, "credential storage failure: read creds.json: unexpected EOF")
	require.True(t, errors.Is(err, errors.ErrStorage))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
