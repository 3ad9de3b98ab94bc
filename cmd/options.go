package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/littlelemon/internal/booking"
)

func newOptionsCmd() *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "options",
		Short: "Print the selectable reservation times, party sizes and occasions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fo := booking.NewFormOptions()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(fo)
			}
			for _, group := range []struct {
				name string
				opts []booking.Option
			}{
				{"times", fo.Times},
				{"guests", fo.Guests},
				{"occasions", fo.Occasions},
			} {
				fmt.Fprintf(out, "%s:\n", group.name)
				for _, o := range group.opts {
					fmt.Fprintf(out, "  %-12s %s\n", o.Value, o.Label)
				}
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return c
}
