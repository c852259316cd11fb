package render

import (
	"fmt"
	"strings"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// Renderer produces the content of one artifact kind.
type Renderer interface {
	// Kind returns the artifact kind this renderer produces.
	Kind() stamp.Kind
	// Render formats rec into the artifact body.
	Render(rec *stamp.Record) ([]byte, error)
}

// New returns the renderer for kind configured from cfg.
//
//nolint:ireturn // Callers only need the Renderer behaviour.
func New(kind stamp.Kind, cfg *config.Config) (Renderer, error) {
	eol := lineEnding(cfg.LineEnding)

	switch kind {
	case stamp.KindResourceScript:
		return &resourceScript{product: cfg.Product, eol: eol}, nil
	case stamp.KindHeader:
		return &header{eol: eol}, nil
	case stamp.KindInnoSetup:
		return &innoSetup{installer: cfg.Installer, eol: eol}, nil
	case stamp.KindSetupResponse:
		return &setupResponse{eol: eol}, nil
	case stamp.KindMSIResponse:
		return &msiResponse{installer: cfg.Installer, eol: eol}, nil
	case stamp.KindVersionInfoJSON:
		return &versionInfoJSON{product: cfg.Product}, nil
	case stamp.KindSyso:
		return &syso{product: cfg.Product, arch: cfg.SysoArch}, nil
	default:
		return nil, fmt.Errorf("%w: %q", stamp.ErrUnknownKind, kind)
	}
}

func lineEnding(name string) string {
	if name == config.LineEndingLF {
		return "\n"
	}

	return "\r\n"
}

// lines accumulates text lines, terminating each with the configured line ending.
type lines struct {
	builder strings.Builder
	eol     string
}

func newLines(eol string) *lines {
	return &lines{eol: eol}
}

// add writes a single line.
func (l *lines) add(line string) {
	l.builder.WriteString(line)
	l.builder.WriteString(l.eol)
}

// addf writes a single formatted line.
func (l *lines) addf(format string, args ...any) {
	l.add(fmt.Sprintf(format, args...))
}

func (l *lines) String() string {
	return l.builder.String()
}

// installerBaseFilename is the prefix of installer file names.
func installerBaseFilename(installer config.Installer, rec *stamp.Record) string {
	if installer.BaseFilename != "" {
		return installer.BaseFilename
	}

	return strings.ReplaceAll(rec.ProductName, " ", "")
}

// installerAppName is the product label shown by the installer.
func installerAppName(installer config.Installer, rec *stamp.Record) string {
	if installer.AppName != "" {
		return installer.AppName
	}

	return rec.ProductName
}
