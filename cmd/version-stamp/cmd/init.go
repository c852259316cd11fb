package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oshokin/version-stamp/internal/config"
	"github.com/oshokin/version-stamp/internal/logger"
)

var (
	// force allows init to overwrite an existing settings file.
	force bool

	errSettingsExist = errors.New("settings file already exists, use --force to overwrite")

	// initCmd writes a settings file with default values.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeDefaultSettings(cmd.Context(), afero.NewOsFs())
		},
	}
)

func writeDefaultSettings(ctx context.Context, fs afero.Fs) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if workDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	if _, err := fs.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", errSettingsExist, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat settings: %w", err)
	}

	if err := config.Save(fs, path, config.Default()); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote default settings", "path", path)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")
}
