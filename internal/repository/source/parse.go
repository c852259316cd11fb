package source

import (
	"strings"

	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// Recognized keys of the version file.
const (
	keyVersion = "Version"
	keyName    = "Name"
)

// lineBreaks normalizes CRLF and lone CR to LF before splitting.
//
//nolint:gochecknoglobals // Immutable replacer.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseFields extracts the recognized keys from version file text.
// Each line is split on its first '='; lines without one are skipped and
// unknown keys are ignored. When a key repeats, the last value wins.
func ParseFields(text string) stamp.Fields {
	var fields stamp.Fields

	for _, line := range strings.Split(lineBreaks.Replace(text), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch key {
		case keyVersion:
			fields.Version = value
			fields.HasVersion = true
		case keyName:
			fields.Name = value
			fields.HasName = true
		}
	}

	return fields
}
