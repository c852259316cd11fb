package render

import (
	"strings"

	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// header renders a C header with version macros.
type header struct {
	eol string
}

//nolint:gochecknoglobals // Immutable replacer.
var cStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (h *header) Kind() stamp.Kind {
	return stamp.KindHeader
}

func (h *header) Render(rec *stamp.Record) ([]byte, error) {
	v := rec.Version
	out := newLines(h.eol)

	out.add("#pragma once")
	out.add("")
	out.addf("#define VERSION_MAJOR %d", v.Major)
	out.addf("#define VERSION_MINOR %d", v.Minor)
	out.addf("#define VERSION_PATCH %d", v.Patch)
	out.addf("#define VERSION_BUILD %d", v.Build)
	cDefine(out, "VERSION_STRING", v.String())
	cDefine(out, "VERSION_SHORT", v.Short())
	cDefine(out, "VERSION_SEMVER", v.SemVer())
	cDefine(out, "PRODUCT_NAME", rec.ProductName)

	if rec.Revision != "" {
		cDefine(out, "GIT_REVISION", rec.Revision)
	}

	if rec.BuildDate != "" {
		cDefine(out, "BUILD_DATE", rec.BuildDate)
	}

	if rec.BuildType != stamp.BuildTypeNone {
		cDefine(out, "BUILD_TYPE", string(rec.BuildType))
	}

	return []byte(out.String()), nil
}

func cDefine(out *lines, name, value string) {
	out.addf(`#define %s "%s"`, name, cStringEscaper.Replace(value))
}
