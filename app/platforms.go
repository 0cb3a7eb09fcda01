package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rokkenjima/watchface/internal/platform"
)

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported display classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tSHAPE\tCOLOUR")

			for _, name := range platform.Names() {
				caps, err := platform.Lookup(name)
				if err != nil {
					return err //nolint:wrapcheck
				}

				fmt.Fprintf(w, "%s\t%dx%d\t%s\t%t\n", caps.Name, caps.Width, caps.Height, caps.Shape, caps.Colour)
			}

			return w.Flush() //nolint:wrapcheck
		},
	}
}
