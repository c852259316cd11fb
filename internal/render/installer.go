package render

import (
	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// innoSetup renders the version directives included by an Inno Setup script.
type innoSetup struct {
	installer config.Installer
	eol       string
}

func (r *innoSetup) Kind() stamp.Kind {
	return stamp.KindInnoSetup
}

func (r *innoSetup) Render(rec *stamp.Record) ([]byte, error) {
	out := newLines(r.eol)

	out.add("VersionInfoVersion=" + rec.Version.String())
	out.addf(`AppVerName="%s %s"`, installerAppName(r.installer, rec), rec.Version.String())
	out.addf("OutputBaseFilename=%s_v%s", installerBaseFilename(r.installer, rec), rec.Version.Short())

	return []byte(out.String()), nil
}

// setupResponse renders the WiX compiler response file defining the version variable.
type setupResponse struct {
	eol string
}

func (r *setupResponse) Kind() stamp.Kind {
	return stamp.KindSetupResponse
}

func (r *setupResponse) Render(rec *stamp.Record) ([]byte, error) {
	out := newLines(r.eol)
	out.add("-dVersion=" + rec.Version.String())

	return []byte(out.String()), nil
}

// msiResponse renders the WiX linker response file naming the MSI package.
type msiResponse struct {
	installer config.Installer
	eol       string
}

func (r *msiResponse) Kind() stamp.Kind {
	return stamp.KindMSIResponse
}

func (r *msiResponse) Render(rec *stamp.Record) ([]byte, error) {
	out := newLines(r.eol)

	// The linker runs on Windows, so the separator is always a backslash.
	out.addf(`-o %s\%s_v%s.msi`, r.installer.OutputDir, installerBaseFilename(r.installer, rec), rec.Version.Short())

	return []byte(out.String()), nil
}
