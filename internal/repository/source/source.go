package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/oshokin/version-stamp/internal/domain/stamp"
	"github.com/oshokin/version-stamp/internal/logger"
)

var (
	// ErrInputMissing is returned when a required input file cannot be read.
	ErrInputMissing = errors.New("input file is missing")
	// ErrEmptyRevision is returned when the revision file holds only whitespace.
	ErrEmptyRevision = errors.New("revision file is empty")
)

// Inputs is what Source.Load read from disk.
type Inputs struct {
	// Fields are the recognized keys of the version file.
	Fields stamp.Fields
	// Revision is the trimmed revision token, empty if no revision file is configured.
	Revision string
}

// Source locates the input files relative to a working directory.
type Source struct {
	// fs is the filesystem all reads go through.
	fs afero.Fs
	// dir is the working directory relative paths are resolved against.
	dir string
	// versionFile is the path of the Key=Value version file.
	versionFile string
	// revisionFile is the path of the revision file, or empty.
	revisionFile string
}

// New creates a Source. revisionFile may be empty to skip the revision.
func New(fs afero.Fs, dir, versionFile, revisionFile string) *Source {
	return &Source{
		fs:           fs,
		dir:          dir,
		versionFile:  versionFile,
		revisionFile: revisionFile,
	}
}

// Load reads and parses the version file and, when configured, the revision file.
func (s *Source) Load(ctx context.Context) (*Inputs, error) {
	text, err := s.read(s.versionFile)
	if err != nil {
		return nil, err
	}

	inputs := &Inputs{
		Fields: ParseFields(text),
	}

	logger.DebugKV(ctx, "Parsed version file",
		"path", s.resolve(s.versionFile),
		"version", inputs.Fields.Version,
		"name", inputs.Fields.Name)

	if s.revisionFile == "" {
		return inputs, nil
	}

	if inputs.Revision, err = s.ReadRevision(); err != nil {
		return nil, err
	}

	return inputs, nil
}

// ReadRevision returns the content of the revision file with surrounding whitespace removed.
func (s *Source) ReadRevision() (string, error) {
	text, err := s.read(s.revisionFile)
	if err != nil {
		return "", err
	}

	revision := strings.TrimSpace(text)
	if revision == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyRevision, s.resolve(s.revisionFile))
	}

	return revision, nil
}

func (s *Source) read(name string) (string, error) {
	path := s.resolve(name)

	contents, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInputMissing, path, err)
	}

	return string(contents), nil
}

func (s *Source) resolve(name string) string {
	if filepath.IsAbs(name) || s.dir == "" {
		return filepath.Clean(name)
	}

	return filepath.Join(s.dir, name)
}
