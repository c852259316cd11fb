package stamper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/domain/stamp"
	"github.com/oshokin/version-stamp/internal/logger"
	"github.com/oshokin/version-stamp/internal/render"
	"github.com/oshokin/version-stamp/internal/repository/marker"
	"github.com/oshokin/version-stamp/internal/repository/source"
)

// GitFunc returns the current source revision of the repository containing dir.
type GitFunc func(ctx context.Context, dir string) (string, error)

// Options are inputs accepted by the stamper entry point.
// Fs, Now and Git form the environment the pipeline runs in; zero values
// select the real filesystem, the wall clock and the git binary.
type Options struct {
	// Fs is the filesystem all files are read from and written to.
	Fs afero.Fs
	// Dir is the working directory relative paths are resolved against.
	Dir string
	// Now returns the current time for the build date.
	Now func() time.Time
	// Git resolves the revision when the settings ask for it.
	Git GitFunc

	// ConfigPath is the settings file. A missing default file means default settings.
	ConfigPath string
	// VersionFile overrides the settings' version file.
	VersionFile string
	// RevisionFile overrides the settings' revision file.
	RevisionFile string
	// RevisionFromGit takes the revision from git instead of a file.
	RevisionFromGit bool
	// NoRevision leaves the revision out of every artifact.
	NoRevision bool
	// BuildType overrides the settings' build type.
	BuildType string
	// Date overrides the build date, in YYYY-MM-DD form.
	Date string
	// Lenient substitutes defaults for missing version file keys.
	Lenient bool
	// Only restricts the run to these artifact kinds.
	Only []string
	// DryRun renders artifacts without writing them.
	DryRun bool
}

// Result describes a completed run.
type Result struct {
	// Record is the data every artifact was rendered from.
	Record *stamp.Record
	// Artifacts are the rendered outputs in configuration order.
	Artifacts []stamp.Artifact
	// Defaulted lists version file keys replaced by defaults in lenient mode.
	Defaulted []string
}

var (
	errBadDate       = errors.New("build date must be YYYY-MM-DD")
	errNoGitRevision = errors.New("git returned an empty revision")
)

// Run executes the stamping pipeline.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "version-stamp")

	env := withDefaults(opts)

	cfg, err := loadConfig(ctx, env)
	if err != nil {
		return nil, err
	}

	if err = applyOverrides(cfg, env); err != nil {
		return nil, err
	}

	runMarker := marker.New(env.Fs, resolve(env.Dir, marker.DefaultFilename))
	if !env.DryRun {
		if err = runMarker.Acquire(ctx); err != nil {
			return nil, err
		}

		defer func() {
			if releaseErr := runMarker.Release(ctx); releaseErr != nil {
				logger.WarnKV(ctx, "Unable to release run marker", "error", releaseErr)
			}
		}()
	}

	rec, defaulted, err := buildRecord(ctx, cfg, env)
	if err != nil {
		return nil, err
	}

	artifacts, err := renderAll(cfg, rec)
	if err != nil {
		return nil, err
	}

	if !env.DryRun {
		if err = writeAll(ctx, env, artifacts); err != nil {
			return nil, err
		}
	}

	logger.InfoKV(ctx, "Stamping completed", "artifacts", len(artifacts), "dry_run", env.DryRun)

	return &Result{
		Record:    rec,
		Artifacts: artifacts,
		Defaulted: defaulted,
	}, nil
}

// withDefaults returns a copy of opts with the environment filled in.
func withDefaults(opts *Options) Options {
	var env Options
	if opts != nil {
		env = *opts
	}

	if env.Fs == nil {
		env.Fs = afero.NewOsFs()
	}

	if env.Now == nil {
		env.Now = time.Now
	}

	if env.Git == nil {
		env.Git = GitRevision
	}

	return env
}

// loadConfig reads the settings file. Only an absent default file falls back to defaults.
func loadConfig(ctx context.Context, env Options) (*config.Config, error) {
	path := env.ConfigPath
	explicit := path != ""

	if !explicit {
		path = config.DefaultConfigFilename
	}

	cfg, err := config.Load(env.Fs, resolve(env.Dir, path))
	if err == nil {
		logger.DebugKV(ctx, "Loaded settings", "path", resolve(env.Dir, path))
		return cfg, nil
	}

	if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger.DebugKV(ctx, "No settings file, using defaults", "path", resolve(env.Dir, path))

	cfg = config.Default()
	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyOverrides merges command line overrides into cfg.
func applyOverrides(cfg *config.Config, env Options) error {
	if env.VersionFile != "" {
		cfg.VersionFile = env.VersionFile
	}

	switch {
	case env.NoRevision:
		cfg.RevisionFile = ""
		cfg.RevisionFromGit = false
	case env.RevisionFromGit:
		cfg.RevisionFile = ""
		cfg.RevisionFromGit = true
	case env.RevisionFile != "":
		cfg.RevisionFile = env.RevisionFile
		cfg.RevisionFromGit = false
	}

	if env.BuildType != "" {
		cfg.BuildType = env.BuildType
	}

	if env.Lenient {
		cfg.Lenient = true
	}

	if len(env.Only) > 0 {
		kinds := make([]stamp.Kind, 0, len(env.Only))

		for _, name := range env.Only {
			kind, err := stamp.ParseKind(name)
			if err != nil {
				return err
			}

			kinds = append(kinds, kind)
		}

		cfg.Only(kinds)
	}

	return config.Validate(cfg)
}

// buildRecord reads the inputs and resolves revision, date and build type.
func buildRecord(ctx context.Context, cfg *config.Config, env Options) (*stamp.Record, []string, error) {
	inputs, err := source.New(env.Fs, env.Dir, cfg.VersionFile, cfg.RevisionFile).Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	revision := inputs.Revision
	if cfg.RevisionFromGit {
		if revision, err = env.Git(ctx, env.Dir); err != nil {
			return nil, nil, fmt.Errorf("resolve git revision: %w", err)
		}
	}

	buildDate, err := resolveDate(cfg, env)
	if err != nil {
		return nil, nil, err
	}

	buildType, err := stamp.ParseBuildType(cfg.BuildType)
	if err != nil {
		return nil, nil, err
	}

	rec, defaulted, err := stamp.NewRecord(inputs.Fields, stamp.RecordOptions{
		Lenient:   cfg.Lenient,
		Revision:  revision,
		BuildDate: buildDate,
		BuildType: buildType,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.VersionFile, err)
	}

	for _, key := range defaulted {
		logger.WarnKV(ctx, "Version file key is missing, using default", "key", key, "path", cfg.VersionFile)
	}

	logger.InfoKV(ctx, "Found product", "name", rec.ProductName)
	logger.InfoKV(ctx, "Found version", "version", rec.Version.String())

	if rec.Revision != "" {
		logger.InfoKV(ctx, "Source revision", "revision", rec.Revision)
	}

	return rec, defaulted, nil
}

func resolveDate(cfg *config.Config, env Options) (string, error) {
	if cfg.OmitDate {
		return "", nil
	}

	if env.Date == "" {
		return stamp.FormatDate(env.Now()), nil
	}

	parsed, err := time.Parse(stamp.DateLayout, env.Date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", errBadDate, env.Date)
	}

	return stamp.FormatDate(parsed), nil
}

func renderAll(cfg *config.Config, rec *stamp.Record) ([]stamp.Artifact, error) {
	artifacts := make([]stamp.Artifact, 0, len(cfg.Outputs))

	for _, output := range cfg.Outputs {
		kind := stamp.Kind(output.Kind)

		renderer, err := render.New(kind, cfg)
		if err != nil {
			return nil, err
		}

		content, err := renderer.Render(rec)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", kind, err)
		}

		artifacts = append(artifacts, stamp.Artifact{
			Kind:    kind,
			Path:    output.Path,
			Content: content,
		})
	}

	return artifacts, nil
}

// stagedSuffix marks artifact content waiting to be renamed into place.
const stagedSuffix = ".stamp-tmp"

// stagedArtifact is a rendered artifact written next to its target.
type stagedArtifact struct {
	artifact stamp.Artifact
	path     string
	temp     string
	renamed  bool
}

// writeAll replaces every artifact file with its freshly rendered content.
// All artifacts are staged first; targets are only replaced once every
// staged file was written, so a failed write leaves the previous set intact.
func writeAll(ctx context.Context, env Options, artifacts []stamp.Artifact) error {
	staged := make([]stagedArtifact, 0, len(artifacts))

	defer func() {
		for _, s := range staged {
			if !s.renamed {
				_ = env.Fs.Remove(s.temp)
			}
		}
	}()

	for _, artifact := range artifacts {
		path := resolve(env.Dir, artifact.Path)

		if dir := filepath.Dir(path); dir != "." {
			if err := env.Fs.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("create directory for %s: %w", path, err)
			}
		}

		temp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+stagedSuffix)
		staged = append(staged, stagedArtifact{artifact: artifact, path: path, temp: temp})

		if err := afero.WriteFile(env.Fs, temp, artifact.Content, config.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	for i := range staged {
		if err := env.Fs.Rename(staged[i].temp, staged[i].path); err != nil {
			return fmt.Errorf("replace %s: %w", staged[i].path, err)
		}

		staged[i].renamed = true

		logger.InfoKV(ctx, "Wrote artifact",
			"kind", staged[i].artifact.Kind,
			"path", staged[i].path,
			"bytes", len(staged[i].artifact.Content))
	}

	return nil
}

// GitRevision asks git for the abbreviated hash of HEAD in dir.
func GitRevision(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}

	revision := strings.TrimSpace(string(output))
	if revision == "" {
		return "", errNoGitRevision
	}

	return revision, nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return filepath.Clean(name)
	}

	return filepath.Join(dir, name)
}
