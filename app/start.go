package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/daemon"
	"github.com/rokkenjima/watchface/internal/logger"
)

func newStartCmd(configPath *string) *cobra.Command {
	var (
		cfg     config.Config
		devMode bool
	)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the watchface daemon",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			if cfg, err = loadConfig(*configPath); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if cfg.DevMode {
				if dump, err := config.DumpConfig(&cfg); err == nil {
					log.Debug().Msg("effective config:\n" + dump)
				}
			}

			d, err := daemon.New(context.Background(), &cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return d.Start() //nolint:wrapcheck
		},
	}

	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	return startCmd
}

// loadConfig reads the config and sets up the global logger from it.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.ReadConfig(path)
	if err != nil {
		return cfg, err //nolint:wrapcheck
	}

	if err := logger.Init(cfg.Log); err != nil {
		return cfg, err //nolint:wrapcheck
	}

	return cfg, nil
}
