package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephspurrier/goversioninfo"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// Values of the fixed file info block, matching the resource script.
const (
	fileFlagsMask = "3f"     // VS_FFI_FILEFLAGSMASK
	fileOS        = "040004" // VOS__WINDOWS32
	fileTypeApp   = "01"     // VFT_APP

	langUSEnglish  = 1033
	charsetWestern = 1252
)

// versionInfoDocument mirrors the layout of a goversioninfo versioninfo.json file.
type versionInfoDocument struct {
	FixedFileInfo  goversioninfo.FixedFileInfo  `json:"FixedFileInfo"`
	StringFileInfo goversioninfo.StringFileInfo `json:"StringFileInfo"`
	VarFileInfo    goversioninfo.VarFileInfo    `json:"VarFileInfo"`
	IconPath       string                       `json:"IconPath"`
	ManifestPath   string                       `json:"ManifestPath"`
}

func newVersionInfoDocument(rec *stamp.Record, product config.Product) versionInfoDocument {
	v := rec.Version

	var doc versionInfoDocument

	doc.FixedFileInfo.FileVersion = goversioninfo.FileVersion{
		Major: int(v.Major),
		Minor: int(v.Minor),
		Patch: int(v.Patch),
		Build: int(v.Build),
	}
	doc.FixedFileInfo.ProductVersion = goversioninfo.FileVersion{
		Major: int(v.Major),
		Minor: int(v.Minor),
		Patch: int(v.Patch),
	}
	doc.FixedFileInfo.FileFlagsMask = fileFlagsMask
	doc.FixedFileInfo.FileOS = fileOS
	doc.FixedFileInfo.FileType = fileTypeApp

	doc.StringFileInfo = goversioninfo.StringFileInfo{
		Comments:         product.Comments,
		CompanyName:      product.CompanyName,
		FileDescription:  product.FileDescription,
		FileVersion:      v.String(),
		InternalName:     product.InternalName,
		LegalCopyright:   product.LegalCopyright,
		OriginalFilename: product.OriginalFilename,
		ProductName:      rec.ProductName,
		ProductVersion:   v.Short() + ".0",
	}
	doc.VarFileInfo.Translation = goversioninfo.Translation{
		LangID:    goversioninfo.LangID(langUSEnglish),
		CharsetID: goversioninfo.CharsetID(charsetWestern),
	}

	return doc
}

// versionInfoJSON renders the versioninfo.json consumed by the goversioninfo tool.
type versionInfoJSON struct {
	product config.Product
}

func (r *versionInfoJSON) Kind() stamp.Kind {
	return stamp.KindVersionInfoJSON
}

func (r *versionInfoJSON) Render(rec *stamp.Record) ([]byte, error) {
	data, err := json.MarshalIndent(newVersionInfoDocument(rec, r.product), "", "\t")
	if err != nil {
		return nil, fmt.Errorf("marshal versioninfo: %w", err)
	}

	return append(data, '\n'), nil
}

// syso renders a COFF object with the version resource, linked automatically
// by the Go toolchain into Windows binaries of the matching GOARCH.
type syso struct {
	product config.Product
	arch    string
}

func (r *syso) Kind() stamp.Kind {
	return stamp.KindSyso
}

func (r *syso) Render(rec *stamp.Record) ([]byte, error) {
	doc := newVersionInfoDocument(rec, r.product)

	vi := &goversioninfo.VersionInfo{}
	vi.FixedFileInfo = doc.FixedFileInfo
	vi.StringFileInfo = doc.StringFileInfo
	vi.VarFileInfo = doc.VarFileInfo

	vi.Build()
	vi.Walk()

	// goversioninfo only writes to named files, so stage the object in a
	// scratch directory and hand back its bytes.
	dir, err := os.MkdirTemp("", "version-stamp-syso-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(dir)
	}()

	path := filepath.Join(dir, "resource.syso")
	if err = vi.WriteSyso(path, r.arch); err != nil {
		return nil, fmt.Errorf("write syso for %s: %w", r.arch, err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is built from our own scratch directory.
	if err != nil {
		return nil, fmt.Errorf("read syso: %w", err)
	}

	return data, nil
}
