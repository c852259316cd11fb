package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// resourceScript renders a VERSIONINFO resource script. The output is
// Windows-1252 because the resource block declares code page 1252.
type resourceScript struct {
	product config.Product
	eol     string
}

func (r *resourceScript) Kind() stamp.Kind {
	return stamp.KindResourceScript
}

func (r *resourceScript) Render(rec *stamp.Record) ([]byte, error) {
	v := rec.Version
	out := newLines(r.eol)

	out.add("#include <winresrc.h>")
	out.add("1 VERSIONINFO")
	out.addf("FILEVERSION %d, %d, %d, %d", v.Major, v.Minor, v.Patch, v.Build)
	out.addf("PRODUCTVERSION %d, %d, %d, 0", v.Major, v.Minor, v.Patch)
	out.add("FILEFLAGSMASK VS_FFI_FILEFLAGSMASK")
	out.add("FILEOS VOS__WINDOWS32")
	out.add("FILETYPE VFT_APP")
	out.add("{")
	out.add(`BLOCK "StringFileInfo"`)
	out.add("{")
	out.add(`BLOCK "040904E4"`)
	out.add("{")
	rcValue(out, "CompanyName", r.product.CompanyName)
	rcValue(out, "FileVersion", v.String())
	rcValue(out, "FileDescription", r.product.FileDescription)
	rcValue(out, "InternalName", r.product.InternalName)
	rcValue(out, "LegalCopyright", r.product.LegalCopyright)
	rcValue(out, "OriginalFilename", r.product.OriginalFilename)
	rcValue(out, "Comments", r.product.Comments)
	rcValue(out, "ProductName", rec.ProductName)
	rcValue(out, "ProductVersion", v.Short()+".0")

	if rec.Revision != "" {
		rcValue(out, "SourceRevision", rec.Revision)
	}

	out.add("}")
	out.add("}")
	out.add(`BLOCK "VarFileInfo"`)
	out.add("{")
	out.add(`VALUE "Translation", 1033, 1252`)
	out.add("}")
	out.add("END")

	encoded, err := charmap.Windows1252.NewEncoder().String(out.String())
	if err != nil {
		return nil, fmt.Errorf("encode resource script as windows-1252: %w", err)
	}

	return []byte(encoded), nil
}

// rcValue writes a StringFileInfo VALUE line. Quotes are doubled as the
// resource compiler expects.
func rcValue(out *lines, name, value string) {
	out.addf(`VALUE "%s", "%s"`, name, strings.ReplaceAll(value, `"`, `""`))
}
