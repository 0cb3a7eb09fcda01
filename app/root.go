// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/rokkenjima/watchface/internal/logger"
)

// NewRootCmd returns the watchface command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "watchface",
		Short: "rokkenjima is an analogue watchface runtime",
		Long: `rokkenjima renders an analogue watchface on a simulated Pebble display.

Settings arrive over NATS, a drop directory or the web settings page, are
persisted as a versioned blob and applied to the face immediately.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"directory holding main.toml (default ./etc/)")

	rootCmd.AddCommand(
		newStartCmd(&configPath),
		newSettingsCmd(&configPath),
		newPlatformsCmd(),
	)

	return rootCmd
}

// Execute runs the root command and flushes the log sinks afterwards.
func Execute() error {
	defer logger.Close()

	return NewRootCmd().Execute() //nolint:wrapcheck
}
