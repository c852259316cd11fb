package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/version-stamp/internal/config"
)

// TestRootCommand initializes settings in a temporary directory and stamps it end to end.
// The command tree keeps its flags in package state, so the steps run sequentially.
func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.ini"), []byte("Version=3.1.4.1\r\nName=Sensor Hub\r\n"), 0o600))

	rootCmd.SetArgs([]string{"init", "-C", dir})
	require.NoError(t, rootCmd.Execute())

	_, err := os.Stat(filepath.Join(dir, config.DefaultConfigFilename))
	require.NoError(t, err)

	// A second init refuses to overwrite.
	rootCmd.SetArgs([]string{"init", "-C", dir})
	require.ErrorIs(t, rootCmd.Execute(), errSettingsExist)

	rootCmd.SetArgs([]string{"-C", dir, "--no-revision", "--date", "2024-01-05", "--log-level", "warn"})
	require.NoError(t, rootCmd.Execute())

	header, err := os.ReadFile(filepath.Join(dir, "version.h"))
	require.NoError(t, err)
	require.Contains(t, string(header), "#define VERSION_STRING \"3.1.4.1\"\r\n")
	require.Contains(t, string(header), "#define BUILD_DATE \"2024-01-05\"\r\n")
	require.NotContains(t, string(header), "GIT_REVISION")

	msi, err := os.ReadFile(filepath.Join(dir, "msi.resp"))
	require.NoError(t, err)
	require.Equal(t, "-o Output\\SensorHub_v3.1.4.msi\r\n", string(msi))

	rootCmd.SetArgs([]string{"-C", dir, "--log-level", "loud"})
	require.Error(t, rootCmd.Execute())
}
