package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/littlelemon/internal/config"
	"github.com/example/littlelemon/internal/domain/reservation"
)

var errInvalidReservation = errors.New("reservation is invalid")

// newValidateCmd runs the form's validation rules against flag values, handy for
// checking a phone booking before keying it in.
func newValidateCmd() *cobra.Command {
	values := make(map[reservation.Field]*string, len(reservation.AllFields))

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check reservation details against the booking form rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.StorageFromEnv()
			if err != nil {
				return err
			}
			today := reservation.Today(time.Now(), cfg.Location())

			d := reservation.NewDraft()
			for _, f := range reservation.AllFields {
				d.Values[f] = *values[f]
			}
			out := cmd.OutOrStdout()
			if d.ValidateAll(today) {
				fmt.Fprintln(out, "ok")
				return nil
			}
			for _, f := range reservation.RequiredFields {
				if msg, ok := d.Errors[f]; ok {
					fmt.Fprintf(out, "%-10s %s\n", f, msg)
				}
			}
			return errInvalidReservation
		},
	}
	for _, f := range reservation.AllFields {
		values[f] = c.Flags().String(string(f), "", fmt.Sprintf("%s value as entered in the form", f))
	}
	return c
}
