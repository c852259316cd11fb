package stamp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for artifact kinds the renderer does not know.
var ErrUnknownKind = errors.New("unknown artifact kind")

// Kind identifies a generated artifact format.
type Kind string

// Artifact kinds.
const (
	// KindResourceScript is a Windows resource script with a VERSIONINFO block.
	KindResourceScript Kind = "rc"
	// KindHeader is a C header with version macros.
	KindHeader Kind = "header"
	// KindInnoSetup is an Inno Setup include with installer version directives.
	KindInnoSetup Kind = "iss"
	// KindSetupResponse is a WiX compiler response file.
	KindSetupResponse Kind = "setup-resp"
	// KindMSIResponse is a WiX linker response file naming the output package.
	KindMSIResponse Kind = "msi-resp"
	// KindVersionInfoJSON is a goversioninfo versioninfo.json document.
	KindVersionInfoJSON Kind = "json"
	// KindSyso is a COFF object embedding the version resource for the Go linker.
	KindSyso Kind = "syso"
)

// Kinds returns every known artifact kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindResourceScript,
		KindHeader,
		KindInnoSetup,
		KindSetupResponse,
		KindMSIResponse,
		KindVersionInfoJSON,
		KindSyso,
	}
}

// ParseKind matches s against the known artifact kinds.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DefaultPath returns the file name an artifact is written to unless configured otherwise.
func (k Kind) DefaultPath() string {
	switch k {
	case KindResourceScript:
		return "version.rc"
	case KindHeader:
		return "version.h"
	case KindInnoSetup:
		return "version.iss"
	case KindSetupResponse:
		return "setup.resp"
	case KindMSIResponse:
		return "msi.resp"
	case KindVersionInfoJSON:
		return "versioninfo.json"
	case KindSyso:
		return "resource.syso"
	default:
		return ""
	}
}

// Artifact is a rendered output file.
type Artifact struct {
	// Kind is the format of Content.
	Kind Kind
	// Path is where the artifact is written, relative to the working directory.
	Path string
	// Content is the full file body.
	Content []byte
}
