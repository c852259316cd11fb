package stamp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseVersion checks full, short and semantic renderings of a well-formed version.
func TestParseVersion(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, Version{Major: 1, Minor: 2, Patch: 3, Build: 4}, v)
	require.Equal(t, "1.2.3.4", v.String())
	require.Equal(t, "1.2.3", v.Short())
	require.Equal(t, "1.2.3+4", v.SemVer())

	v, err = ParseVersion(" 10.0.65535.007 ")
	require.NoError(t, err)
	require.Equal(t, "10.0.65535.7", v.String())
}

// TestParseVersion_Malformed ensures anything but four numeric segments is rejected.
func TestParseVersion_Malformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"",
		"1.2.3",
		"1.2.3.4.5",
		"1.2.x.4",
		"1..3.4",
		"1.2.3.-4",
		"1.2.3.+4",
		"1.2.3.65536",
		"v1.2.3.4",
	} {
		_, err := ParseVersion(input)
		require.ErrorIs(t, err, ErrMalformedVersion, input)
	}
}
