package stamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultVersion is used in lenient mode when the version file has no Version key.
const DefaultVersion = "0.0.0.0"

// versionSegments is the number of dot-separated tokens in a full version.
const versionSegments = 4

// ErrMalformedVersion is returned when a version string is not four dot-separated numbers.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a four-segment file version as used by Windows resources and installers.
type Version struct {
	Major uint16
	Minor uint16
	Patch uint16
	Build uint16
}

// ParseVersion parses "Major.Minor.Patch.Build". Each segment must be a decimal
// number that fits into 16 bits, the width of a VERSIONINFO field.
func ParseVersion(s string) (Version, error) {
	tokens := strings.Split(strings.TrimSpace(s), ".")
	if len(tokens) != versionSegments {
		return Version{}, fmt.Errorf("%w: %q has %d segments, want %d", ErrMalformedVersion, s, len(tokens), versionSegments)
	}

	var parsed [versionSegments]uint16

	for i, token := range tokens {
		if token == "" || strings.TrimLeft(token, "0123456789") != "" {
			return Version{}, fmt.Errorf("%w: %q segment %d (%q) is not a number", ErrMalformedVersion, s, i+1, token)
		}

		n, err := strconv.ParseUint(token, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q segment %d (%q) is out of range", ErrMalformedVersion, s, i+1, token)
		}

		parsed[i] = uint16(n)
	}

	return Version{
		Major: parsed[0],
		Minor: parsed[1],
		Patch: parsed[2],
		Build: parsed[3],
	}, nil
}

// String returns the full four-segment version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Short returns the first three segments.
func (v Version) Short() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// SemVer renders the version as a semantic version with the build number as metadata.
func (v Version) SemVer() string {
	sv := semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), "", strconv.Itoa(int(v.Build)))

	return sv.String()
}
