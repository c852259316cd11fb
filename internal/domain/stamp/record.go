package stamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultProductName is used in lenient mode when the version file has no Name key.
const DefaultProductName = "Unknown"

// DateLayout is the layout of Record.BuildDate.
const DateLayout = "2006-01-02"

// ErrMissingField is returned when a required key is absent from the version file.
var ErrMissingField = errors.New("missing required field")

// ErrUnknownBuildType is returned for build type labels outside the known set.
var ErrUnknownBuildType = errors.New("unknown build type")

// BuildType labels the build configuration. The empty value means "not stamped".
type BuildType string

// Known build types.
const (
	BuildTypeNone           BuildType = ""
	BuildTypeRelease        BuildType = "Release"
	BuildTypeDebug          BuildType = "Debug"
	BuildTypeRelWithDebInfo BuildType = "RelWithDebInfo"
	BuildTypeMinSizeRel     BuildType = "MinSizeRel"
)

// ParseBuildType matches s case-insensitively against the known build types.
func ParseBuildType(s string) (BuildType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BuildTypeNone, nil
	}

	for _, bt := range []BuildType{BuildTypeRelease, BuildTypeDebug, BuildTypeRelWithDebInfo, BuildTypeMinSizeRel} {
		if strings.EqualFold(s, string(bt)) {
			return bt, nil
		}
	}

	return BuildTypeNone, fmt.Errorf("%w: %q", ErrUnknownBuildType, s)
}

// FormatDate renders t as a zero-padded YYYY-MM-DD build date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Record holds every value substituted into generated artifacts.
// It is built once per run and never modified afterwards.
type Record struct {
	// Version is the parsed four-segment version.
	Version Version
	// ProductName comes from the Name key of the version file.
	ProductName string
	// Revision identifies the source snapshot; empty when not stamped.
	Revision string
	// BuildDate is YYYY-MM-DD; empty when not stamped.
	BuildDate string
	// BuildType is the build configuration label; empty when not stamped.
	BuildType BuildType
}

// Fields are the recognized keys read from a version file.
type Fields struct {
	// Version is the raw value of the last Version key.
	Version string
	// HasVersion reports whether a Version key was present.
	HasVersion bool
	// Name is the raw value of the last Name key.
	Name string
	// HasName reports whether a Name key was present.
	HasName bool
}

// RecordOptions carries the values that do not come from the version file.
type RecordOptions struct {
	// Lenient substitutes defaults for missing keys instead of failing.
	Lenient bool
	// Revision is the already trimmed revision token.
	Revision string
	// BuildDate is the formatted build date.
	BuildDate string
	// BuildType is the build configuration label.
	BuildType BuildType
}

// NewRecord validates fields and builds a Record. In lenient mode absent or empty keys
// fall back to DefaultVersion and DefaultProductName, and the names of the
// defaulted keys are returned so the caller can report them. A malformed
// version is rejected in every mode.
func NewRecord(fields Fields, opts RecordOptions) (*Record, []string, error) {
	var defaulted []string

	versionText := fields.Version
	if !fields.HasVersion || strings.TrimSpace(versionText) == "" {
		if !opts.Lenient {
			return nil, nil, fmt.Errorf("%w: Version", ErrMissingField)
		}

		versionText = DefaultVersion
		defaulted = append(defaulted, "Version")
	}

	productName := fields.Name
	if !fields.HasName || strings.TrimSpace(productName) == "" {
		if !opts.Lenient {
			return nil, nil, fmt.Errorf("%w: Name", ErrMissingField)
		}

		productName = DefaultProductName
		defaulted = append(defaulted, "Name")
	}

	version, err := ParseVersion(versionText)
	if err != nil {
		return nil, nil, err
	}

	return &Record{
		Version:     version,
		ProductName: productName,
		Revision:    opts.Revision,
		BuildDate:   opts.BuildDate,
		BuildType:   opts.BuildType,
	}, defaulted, nil
}
