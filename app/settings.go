package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rokkenjima/watchface/internal/blobstore"
	"github.com/rokkenjima/watchface/internal/platform"
	"github.com/rokkenjima/watchface/internal/settings"
)

// Output formats of settings show.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrBadAssignment is returned when a settings set argument is not KEY=VALUE.
var ErrBadAssignment = errors.New("expected KEY=VALUE")

func newSettingsCmd(configPath *string) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change the persisted settings",
	}

	settingsCmd.AddCommand(
		newSettingsShowCmd(configPath),
		newSettingsSetCmd(configPath),
		newSettingsResetCmd(configPath),
	)

	return settingsCmd
}

func newSettingsShowCmd(configPath *string) *cobra.Command {
	var (
		format   string
		defaults bool
	)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings the daemon would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *configPath, func(_ blobstore.Store, store *settings.Store) error {
				rec := store.Current()
				if defaults {
					rec = store.Defaults()
				}

				return writeRecord(cmd.OutOrStdout(), rec, format)
			})
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", FormatTOML, "output format: toml, json or yaml")
	showCmd.Flags().BoolVar(&defaults, "defaults", false, "print the platform defaults instead")

	return showCmd
}

func newSettingsSetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Merge values into the persisted settings",
		Long: `Merge values into the persisted settings, exactly as a configuration
channel delivery would. Colours take #RRGGBB or a decimal integer, flags take
true/false, on/off or 1/0.

A running daemon keeps its own copy of the settings and does not see this change
until it restarts. Any update it applies before that, from NATS, the drop
directory or the web page, persists its copy and overwrites this change. Stop
the daemon first, or send the update through one of its channels instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseAssignments(args)
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), *configPath, func(_ blobstore.Store, store *settings.Store) error {
				res, err := store.ApplyUpdate(cmd.Context(), payload)
				if err != nil {
					return err //nolint:wrapcheck
				}

				out := cmd.OutOrStdout()

				for _, k := range res.Applied {
					fmt.Fprintf(out, "applied %s\n", k)
				}

				for _, k := range res.Skipped {
					fmt.Fprintf(out, "skipped %s: invalid value %q\n", k, payload[k])
				}

				for _, k := range res.Unknown {
					fmt.Fprintf(out, "unknown key %s\n", k)
				}

				return nil
			})
		},
	}
}

func newSettingsResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the persisted settings, the next start uses the platform defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *configPath, func(blobs blobstore.Store, _ *settings.Store) error {
				err := blobs.Delete(cmd.Context(), settings.BlobKey)
				if errors.Is(err, blobstore.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing persisted, defaults already in use")
					return nil
				}

				if err != nil {
					return err //nolint:wrapcheck
				}

				fmt.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")

				return nil
			})
		},
	}
}

// withStore opens the configured blob store, loads the settings and runs fn.
func withStore(ctx context.Context, configPath string, fn func(blobstore.Store, *settings.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	caps, err := platform.Lookup(cfg.Platform)
	if err != nil {
		return err //nolint:wrapcheck
	}

	blobs, err := blobstore.Open(cfg.Storage)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() { _ = blobs.Close() }()

	store := settings.New(caps, blobs)
	if err := store.Initialize(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	return fn(blobs, store)
}

func parseAssignments(args []string) (settings.Payload, error) {
	payload := settings.Payload{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadAssignment, arg)
		}

		payload[settings.Key(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	return payload, nil
}

func writeRecord(w io.Writer, rec settings.Record, format string) error {
	var buf bytes.Buffer

	switch strings.ToLower(format) {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
			return err //nolint:wrapcheck
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")

		if err := enc.Encode(rec); err != nil {
			return err //nolint:wrapcheck
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(rec); err != nil {
			return err //nolint:wrapcheck
		}

		if err := enc.Close(); err != nil {
			return err //nolint:wrapcheck
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	_, err := w.Write(buf.Bytes())

	return err //nolint:wrapcheck
}
