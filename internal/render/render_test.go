package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Product = config.Product{
		CompanyName:      "Damen Shipyards",
		FileDescription:  "Sensor logging service",
		InternalName:     "SensorHub",
		LegalCopyright:   "© 2018-2018 Damen Shipyards",
		OriginalFilename: "sensor_hub.exe",
		Comments:         "Log and redistribute sensor data",
	}
	cfg.Installer = config.Installer{
		AppName:      "Damen Research Plate Vibration",
		BaseFilename: "PlateVibration",
		OutputDir:    "Output",
	}

	return cfg
}

func testRecord() *stamp.Record {
	return &stamp.Record{
		Version:     stamp.Version{Major: 1, Minor: 2, Patch: 3, Build: 4},
		ProductName: "Foo",
		Revision:    "abc123",
		BuildDate:   "2024-01-05",
		BuildType:   stamp.BuildTypeRelease,
	}
}

func renderKind(t *testing.T, kind stamp.Kind, cfg *config.Config, rec *stamp.Record) string {
	t.Helper()

	r, err := New(kind, cfg)
	require.NoError(t, err)
	require.Equal(t, kind, r.Kind())

	out, err := r.Render(rec)
	require.NoError(t, err)

	return string(out)
}

// TestResourceScript checks the full VERSIONINFO block, CRLF endings and Windows-1252 encoding.
func TestResourceScript(t *testing.T) {
	t.Parallel()

	want := strings.Join([]string{
		"#include <winresrc.h>",
		"1 VERSIONINFO",
		"FILEVERSION 1, 2, 3, 4",
		"PRODUCTVERSION 1, 2, 3, 0",
		"FILEFLAGSMASK VS_FFI_FILEFLAGSMASK",
		"FILEOS VOS__WINDOWS32",
		"FILETYPE VFT_APP",
		"{",
		`BLOCK "StringFileInfo"`,
		"{",
		`BLOCK "040904E4"`,
		"{",
		`VALUE "CompanyName", "Damen Shipyards"`,
		`VALUE "FileVersion", "1.2.3.4"`,
		`VALUE "FileDescription", "Sensor logging service"`,
		`VALUE "InternalName", "SensorHub"`,
		"VALUE \"LegalCopyright\", \"\xa9 2018-2018 Damen Shipyards\"",
		`VALUE "OriginalFilename", "sensor_hub.exe"`,
		`VALUE "Comments", "Log and redistribute sensor data"`,
		`VALUE "ProductName", "Foo"`,
		`VALUE "ProductVersion", "1.2.3.0"`,
		`VALUE "SourceRevision", "abc123"`,
		"}",
		"}",
		`BLOCK "VarFileInfo"`,
		"{",
		`VALUE "Translation", 1033, 1252`,
		"}",
		"END",
		"",
	}, "\r\n")

	require.Equal(t, want, renderKind(t, stamp.KindResourceScript, testConfig(), testRecord()))
}

// TestResourceScript_OptionalRevisionAndQuotes omits an empty revision and doubles quotes.
func TestResourceScript_OptionalRevisionAndQuotes(t *testing.T) {
	t.Parallel()

	rec := testRecord()
	rec.Revision = ""
	rec.ProductName = `The "Hub"`

	out := renderKind(t, stamp.KindResourceScript, testConfig(), rec)
	require.NotContains(t, out, "SourceRevision")
	require.Contains(t, out, `VALUE "ProductName", "The ""Hub"""`+"\r\n")
}

// TestResourceScript_Unencodable rejects characters outside Windows-1252.
func TestResourceScript_Unencodable(t *testing.T) {
	t.Parallel()

	rec := testRecord()
	rec.ProductName = "Датчик"

	r, err := New(stamp.KindResourceScript, testConfig())
	require.NoError(t, err)

	_, err = r.Render(rec)
	require.Error(t, err)
}

// TestHeader checks every macro, LF endings and C string escaping.
func TestHeader(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.LineEnding = config.LineEndingLF

	rec := testRecord()
	rec.ProductName = `C:\Foo "x"`

	want := `#pragma once

#define VERSION_MAJOR 1
#define VERSION_MINOR 2
#define VERSION_PATCH 3
#define VERSION_BUILD 4
#define VERSION_STRING "1.2.3.4"
#define VERSION_SHORT "1.2.3"
#define VERSION_SEMVER "1.2.3+4"
#define PRODUCT_NAME "C:\\Foo \"x\""
#define GIT_REVISION "abc123"
#define BUILD_DATE "2024-01-05"
#define BUILD_TYPE "Release"
`

	require.Equal(t, want, renderKind(t, stamp.KindHeader, cfg, rec))
}

// TestHeader_OptionalFields leaves unset revision, date and build type out.
func TestHeader_OptionalFields(t *testing.T) {
	t.Parallel()

	rec := testRecord()
	rec.Revision = ""
	rec.BuildDate = ""
	rec.BuildType = stamp.BuildTypeNone

	out := renderKind(t, stamp.KindHeader, testConfig(), rec)
	require.NotContains(t, out, "GIT_REVISION")
	require.NotContains(t, out, "BUILD_DATE")
	require.NotContains(t, out, "BUILD_TYPE")
	require.Contains(t, out, "#define VERSION_STRING \"1.2.3.4\"\r\n")
}

// TestInstallerFragments checks the Inno Setup and WiX response outputs.
func TestInstallerFragments(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	rec := testRecord()

	require.Equal(t,
		"VersionInfoVersion=1.2.3.4\r\n"+
			"AppVerName=\"Damen Research Plate Vibration 1.2.3.4\"\r\n"+
			"OutputBaseFilename=PlateVibration_v1.2.3\r\n",
		renderKind(t, stamp.KindInnoSetup, cfg, rec))

	require.Equal(t, "-dVersion=1.2.3.4\r\n", renderKind(t, stamp.KindSetupResponse, cfg, rec))

	require.Equal(t, "-o Output\\PlateVibration_v1.2.3.msi\r\n", renderKind(t, stamp.KindMSIResponse, cfg, rec))
}

// TestInstallerFragments_ProductNameFallback derives installer names from the product name.
func TestInstallerFragments_ProductNameFallback(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Installer = config.Installer{OutputDir: "dist"}

	rec := testRecord()
	rec.ProductName = "Plate Vibration"

	out := renderKind(t, stamp.KindInnoSetup, cfg, rec)
	require.Contains(t, out, "AppVerName=\"Plate Vibration 1.2.3.4\"")
	require.Contains(t, out, "OutputBaseFilename=PlateVibration_v1.2.3")

	require.Equal(t, "-o dist\\PlateVibration_v1.2.3.msi\r\n", renderKind(t, stamp.KindMSIResponse, cfg, rec))
}

// TestVersionInfoJSON decodes the generated document and checks the stamped values.
func TestVersionInfoJSON(t *testing.T) {
	t.Parallel()

	out := renderKind(t, stamp.KindVersionInfoJSON, testConfig(), testRecord())

	var doc struct {
		FixedFileInfo struct {
			FileOS      string
			FileVersion struct {
				Major int
				Build int
			}
		}
		StringFileInfo map[string]string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	require.Equal(t, "1.2.3.4", doc.StringFileInfo["FileVersion"])
	require.Equal(t, "1.2.3.0", doc.StringFileInfo["ProductVersion"])
	require.Equal(t, "Foo", doc.StringFileInfo["ProductName"])
	require.Equal(t, "Damen Shipyards", doc.StringFileInfo["CompanyName"])
	require.Equal(t, "040004", doc.FixedFileInfo.FileOS)
	require.Equal(t, 1, doc.FixedFileInfo.FileVersion.Major)
	require.Equal(t, 4, doc.FixedFileInfo.FileVersion.Build)
}

// TestSyso builds a COFF object for amd64.
func TestSyso(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SysoArch = "amd64"

	out := renderKind(t, stamp.KindSyso, cfg, testRecord())
	require.NotEmpty(t, out)
}

// TestNew_UnknownKind rejects kinds without a renderer.
func TestNew_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := New(stamp.Kind("nsis"), testConfig())
	require.ErrorIs(t, err, stamp.ErrUnknownKind)
}

// TestRender_Idempotent renders every text kind twice and compares the bytes.
func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	for _, kind := range []stamp.Kind{
		stamp.KindResourceScript,
		stamp.KindHeader,
		stamp.KindInnoSetup,
		stamp.KindSetupResponse,
		stamp.KindMSIResponse,
		stamp.KindVersionInfoJSON,
	} {
		first := renderKind(t, kind, cfg, testRecord())
		second := renderKind(t, kind, cfg, testRecord())
		require.Equal(t, first, second, kind)
	}
}
