package stamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewRecord_Strict verifies that strict mode builds records and rejects missing keys.
func TestNewRecord_Strict(t *testing.T) {
	t.Parallel()

	rec, defaulted, err := NewRecord(
		Fields{Version: "1.2.3.4", HasVersion: true, Name: "Foo", HasName: true},
		RecordOptions{Revision: "abc123", BuildDate: "2024-01-05", BuildType: BuildTypeRelease},
	)
	require.NoError(t, err)
	require.Empty(t, defaulted)
	require.Equal(t, "1.2.3.4", rec.Version.String())
	require.Equal(t, "Foo", rec.ProductName)
	require.Equal(t, "abc123", rec.Revision)
	require.Equal(t, "2024-01-05", rec.BuildDate)
	require.Equal(t, BuildTypeRelease, rec.BuildType)

	_, _, err = NewRecord(Fields{Name: "Foo", HasName: true}, RecordOptions{})
	require.ErrorIs(t, err, ErrMissingField)
	require.ErrorContains(t, err, "Version")

	_, _, err = NewRecord(Fields{Version: "1.2.3.4", HasVersion: true}, RecordOptions{})
	require.ErrorIs(t, err, ErrMissingField)
	require.ErrorContains(t, err, "Name")

	_, _, err = NewRecord(Fields{Version: "1.2", HasVersion: true, Name: "Foo", HasName: true}, RecordOptions{})
	require.ErrorIs(t, err, ErrMalformedVersion)
}

// TestNewRecord_Lenient verifies that lenient mode substitutes defaults but still rejects bad versions.
func TestNewRecord_Lenient(t *testing.T) {
	t.Parallel()

	rec, defaulted, err := NewRecord(Fields{}, RecordOptions{Lenient: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Version", "Name"}, defaulted)
	require.Equal(t, DefaultVersion, rec.Version.String())
	require.Equal(t, DefaultProductName, rec.ProductName)

	// Keys present with empty values are defaulted the same way.
	rec, defaulted, err = NewRecord(Fields{Version: " ", HasVersion: true, Name: "Foo", HasName: true}, RecordOptions{Lenient: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Version"}, defaulted)
	require.Equal(t, DefaultVersion, rec.Version.String())
	require.Equal(t, "Foo", rec.ProductName)

	rec, defaulted, err = NewRecord(Fields{Version: "1.2.3.4", HasVersion: true, HasName: true}, RecordOptions{Lenient: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Name"}, defaulted)
	require.Equal(t, DefaultProductName, rec.ProductName)

	_, _, err = NewRecord(Fields{Version: "1.2.3", HasVersion: true}, RecordOptions{Lenient: true})
	require.ErrorIs(t, err, ErrMalformedVersion)
}

// TestParseBuildType covers known labels, case folding, empty input and unknown labels.
func TestParseBuildType(t *testing.T) {
	t.Parallel()

	bt, err := ParseBuildType("release")
	require.NoError(t, err)
	require.Equal(t, BuildTypeRelease, bt)

	bt, err = ParseBuildType("RELWITHDEBINFO")
	require.NoError(t, err)
	require.Equal(t, BuildTypeRelWithDebInfo, bt)

	bt, err = ParseBuildType("  ")
	require.NoError(t, err)
	require.Equal(t, BuildTypeNone, bt)

	_, err = ParseBuildType("Nightly")
	require.ErrorIs(t, err, ErrUnknownBuildType)
}

// TestFormatDate ensures months and days are zero-padded.
func TestFormatDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-01-05", FormatDate(time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC)))
}
