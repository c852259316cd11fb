package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/version-stamp/internal/domain/stamp"
)

// Config holds everything the stamper needs besides the version file itself.
type Config struct {
	// VersionFile is the Key=Value file declaring Version and Name.
	VersionFile string `yaml:"version_file"`
	// RevisionFile holds the source revision token. Empty disables it.
	RevisionFile string `yaml:"revision_file"`
	// RevisionFromGit asks git for the revision when RevisionFile is empty.
	RevisionFromGit bool `yaml:"revision_from_git,omitempty"`
	// BuildType is the build configuration label, e.g. Release.
	BuildType string `yaml:"build_type"`
	// OmitDate leaves the build date out of generated artifacts.
	OmitDate bool `yaml:"omit_date,omitempty"`
	// Lenient substitutes defaults for missing Version and Name keys.
	Lenient bool `yaml:"lenient,omitempty"`
	// LineEnding is "crlf" or "lf".
	LineEnding string `yaml:"line_ending"`
	// SysoArch is the GOARCH the syso artifact is built for.
	SysoArch string `yaml:"syso_arch,omitempty"`
	// Product is the metadata stamped into version resources.
	Product Product `yaml:"product"`
	// Installer controls installer version strings and output names.
	Installer Installer `yaml:"installer"`
	// Outputs lists the artifacts to generate.
	Outputs []Output `yaml:"outputs"`
}

// Product is the StringFileInfo metadata of the version resource.
type Product struct {
	CompanyName      string `yaml:"company_name"`
	FileDescription  string `yaml:"file_description"`
	InternalName     string `yaml:"internal_name"`
	LegalCopyright   string `yaml:"legal_copyright"`
	OriginalFilename string `yaml:"original_filename"`
	Comments         string `yaml:"comments,omitempty"`
}

// Installer configures the installer response artifacts.
type Installer struct {
	// AppName prefixes the version in AppVerName. Defaults to the product name.
	AppName string `yaml:"app_name,omitempty"`
	// BaseFilename prefixes "_v<short version>" in installer file names.
	// Defaults to the product name without spaces.
	BaseFilename string `yaml:"base_filename,omitempty"`
	// OutputDir is the directory the MSI package is written to.
	OutputDir string `yaml:"output_dir"`
}

// Output is one artifact to generate.
type Output struct {
	// Kind is the artifact format.
	Kind string `yaml:"kind"`
	// Path overrides the default file name of the kind.
	Path string `yaml:"path,omitempty"`
}

// Line ending names.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "version-stamp.yaml"

	// DefaultVersionFile is the default version declaration file.
	DefaultVersionFile = "version.ini"

	// DefaultRevisionFile is the default revision token file.
	DefaultRevisionFile = "gitrev.txt"

	// DefaultInstallerOutputDir is where the MSI package is placed by default.
	DefaultInstallerOutputDir = "Output"

	// DefaultFilePermissions is the permission of settings and generated files.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errVersionFileRequired is returned when no version file is configured.
	errVersionFileRequired = errors.New("version file must be provided")
	// errNoOutputs is returned when nothing would be generated.
	errNoOutputs = errors.New("at least one output must be configured")
	// errBadLineEnding is returned for line endings other than crlf and lf.
	errBadLineEnding = errors.New("line ending must be crlf or lf")
	// errDuplicateOutput is returned when two outputs target the same file.
	errDuplicateOutput = errors.New("duplicate output path")
	// errRevisionSourceConflict is returned when both revision sources are configured.
	errRevisionSourceConflict = errors.New("revision_file and revision_from_git are mutually exclusive")
)

// Default returns settings that generate every text artifact with conventional names.
func Default() *Config {
	return &Config{
		VersionFile:  DefaultVersionFile,
		RevisionFile: DefaultRevisionFile,
		BuildType:    string(stamp.BuildTypeRelease),
		LineEnding:   LineEndingCRLF,
		SysoArch:     runtime.GOARCH,
		Installer: Installer{
			OutputDir: DefaultInstallerOutputDir,
		},
		Outputs: []Output{
			{Kind: string(stamp.KindResourceScript)},
			{Kind: string(stamp.KindHeader)},
			{Kind: string(stamp.KindInnoSetup)},
			{Kind: string(stamp.KindSetupResponse)},
			{Kind: string(stamp.KindMSIResponse)},
		},
	}
}

// Load reads settings from the provided path and validates them.
// Keys absent from the file keep the values of Default.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := afero.ReadFile(fs, filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	// Asking for the git revision drops the default revision file unless
	// the file names one explicitly.
	if cfg.RevisionFromGit {
		var explicit struct {
			RevisionFile *string `yaml:"revision_file"`
		}

		if err := yaml.Unmarshal(contents, &explicit); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}

		if explicit.RevisionFile == nil {
			cfg.RevisionFile = ""
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(fs afero.Fs, path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := afero.WriteFile(fs, filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.VersionFile) == "" {
		return errVersionFileRequired
	}

	if cfg.RevisionFile != "" && cfg.RevisionFromGit {
		return errRevisionSourceConflict
	}

	if _, err := stamp.ParseBuildType(cfg.BuildType); err != nil {
		return fmt.Errorf("invalid build type: %w", err)
	}

	cfg.LineEnding = strings.ToLower(strings.TrimSpace(cfg.LineEnding))
	switch cfg.LineEnding {
	case "":
		cfg.LineEnding = LineEndingCRLF
	case LineEndingCRLF, LineEndingLF:
	default:
		return fmt.Errorf("%w: %q", errBadLineEnding, cfg.LineEnding)
	}

	if cfg.SysoArch == "" {
		cfg.SysoArch = runtime.GOARCH
	}

	if cfg.Installer.OutputDir == "" {
		cfg.Installer.OutputDir = DefaultInstallerOutputDir
	}

	return validateOutputs(cfg.Outputs)
}

func validateOutputs(outputs []Output) error {
	if len(outputs) == 0 {
		return errNoOutputs
	}

	seen := make(map[string]struct{}, len(outputs))

	for i := range outputs {
		kind, err := stamp.ParseKind(outputs[i].Kind)
		if err != nil {
			return fmt.Errorf("invalid output %d: %w", i+1, err)
		}

		outputs[i].Kind = string(kind)
		if outputs[i].Path == "" {
			outputs[i].Path = kind.DefaultPath()
		}

		key := filepath.Clean(outputs[i].Path)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", errDuplicateOutput, key)
		}

		seen[key] = struct{}{}
	}

	return nil
}

// EnabledKinds returns the kinds of the configured outputs in order.
func (c *Config) EnabledKinds() []stamp.Kind {
	kinds := make([]stamp.Kind, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		kinds = append(kinds, stamp.Kind(o.Kind))
	}

	return kinds
}

// Only restricts the outputs to the listed kinds. Configured outputs keep
// their paths and order; listed kinds without a configured output are
// appended with their default path.
func (c *Config) Only(kinds []stamp.Kind) {
	requested := make(map[stamp.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		requested[k] = struct{}{}
	}

	kept := make([]Output, 0, len(kinds))
	configured := make(map[stamp.Kind]struct{}, len(c.Outputs))

	for _, o := range c.Outputs {
		kind := stamp.Kind(o.Kind)
		if _, ok := requested[kind]; ok {
			kept = append(kept, o)
			configured[kind] = struct{}{}
		}
	}

	for _, k := range kinds {
		if _, ok := configured[k]; ok {
			continue
		}

		kept = append(kept, Output{Kind: string(k), Path: k.DefaultPath()})
		configured[k] = struct{}{}
	}

	c.Outputs = kept
}
