package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags shared by all subcommands.
type rootOptions struct {
	DataDir string
	logger  *slog.Logger
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	opts := &rootOptions{logger: logger}

	cmd := &cobra.Command{
		Use:   "pixelkey",
		Short: "Pixel-triggered keystroke automation",
		Long: `pixelkey watches configured screen pixels and regions and presses
keys when they match their reference colors. Profiles describe what to
watch and which keys to press; the run command activates one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "",
		"directory for profiles and settings (default: user config dir)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newProfilesCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newKeysCommand(opts))

	return cmd
}

// dataDir resolves the data directory, creating it if needed.
func (o *rootOptions) dataDir() (string, error) {
	dir := o.DataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "pixelkey")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (o *rootOptions) profilesDir() (string, error) {
	dir, err := o.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles"), nil
}

func (o *rootOptions) settingsPath() (string, error) {
	dir, err := o.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.yaml"), nil
}
