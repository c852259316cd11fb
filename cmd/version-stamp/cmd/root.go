package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/version-stamp/internal/logger"
	"github.com/oshokin/version-stamp/internal/service/stamper"
	"github.com/oshokin/version-stamp/internal/version"
)

var (
	// configPath stores the path to the settings YAML file.
	configPath string
	// workDir is the directory relative paths are resolved against.
	workDir string
	// logLevel is the minimum level of printed log messages.
	logLevel string

	// stampOptions collects the overrides passed on the command line.
	stampOptions stamper.Options
	// only lists the artifact kinds to generate.
	only []string

	// rootCmd represents the base command for stamping version artifacts.
	rootCmd = &cobra.Command{
		Use:   "version-stamp",
		Short: "Generate version resources and installer fragments from a version file.",
		Long: `Reads Version and Name from a Key=Value version file (version.ini), the source
revision from gitrev.txt or git, and writes the artifacts listed in
version-stamp.yaml: a Windows resource script, a C header with version macros,
Inno Setup and WiX response fragments, a goversioninfo versioninfo.json and a
.syso resource object.

Without a settings file the resource script, header and installer fragments
are generated with conventional names in the working directory. Every output
file is fully overwritten on each run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := stampOptions
			options.ConfigPath = configPath
			options.Dir = workDir
			options.Only = only

			_, err := stamper.Run(ctx, &options)

			return err
		},
	}
)

// Execute runs the version-stamp CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "Stamping failed", "error", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(initCmd)

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&configPath, "config", "c", "", "path to settings file (default version-stamp.yaml, optional)")
	persistent.StringVarP(&workDir, "dir", "C", "", "working directory for relative paths (default current directory)")
	persistent.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	flags := rootCmd.Flags()
	flags.StringVar(&stampOptions.VersionFile, "version-file", "", "override the version file from settings")
	flags.StringVar(&stampOptions.RevisionFile, "revision-file", "", "override the revision file from settings")
	flags.BoolVar(&stampOptions.RevisionFromGit, "git-revision", false, "take the revision from git rev-parse")
	flags.BoolVar(&stampOptions.NoRevision, "no-revision", false, "do not stamp a source revision")
	flags.StringVarP(&stampOptions.BuildType, "build-type", "b", "", "build type label: Release, Debug, RelWithDebInfo or MinSizeRel")
	flags.StringVar(&stampOptions.Date, "date", "", "build date as YYYY-MM-DD instead of today")
	flags.BoolVar(&stampOptions.Lenient, "lenient", false, "default missing Version and Name instead of failing")
	flags.StringSliceVar(&only, "only", nil, "generate only these artifact kinds (rc, header, iss, setup-resp, msi-resp, json, syso)")
	flags.BoolVar(&stampOptions.DryRun, "dry-run", false, "render artifacts without writing them")

	rootCmd.MarkFlagsMutuallyExclusive("revision-file", "git-revision", "no-revision")
}
