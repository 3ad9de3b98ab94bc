package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/littlelemon/internal/config"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
)

func newReservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Inspect stored reservations",
	}
	cmd.AddCommand(newReservationsListCmd())
	cmd.AddCommand(newReservationsShowCmd())
	return cmd
}

// openLister opens the configured store for read-only inspection.
func openLister(ctx context.Context, cmd *cobra.Command) (*backend, config.Config, error) {
	cfg, err := config.StorageFromEnv()
	if err != nil {
		return nil, cfg, err
	}
	be, err := openBackend(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg), false)
	if err != nil {
		return nil, cfg, err
	}
	if be.lister == nil {
		be.close()
		return nil, cfg, fmt.Errorf("backend %q cannot list reservations", cfg.Backend)
	}
	return be, cfg, nil
}

func newReservationsListCmd() *cobra.Command {
	var (
		from  string
		limit int
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List upcoming reservations (postgres or sqlite backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			be, cfg, err := openLister(ctx, cmd)
			if err != nil {
				return err
			}
			defer be.close()

			start := reservation.Today(time.Now(), cfg.Location())
			if from != "" {
				if start, err = reservation.ParseDate(from, cfg.Location()); err != nil {
					return fmt.Errorf("invalid --from (want YYYY-MM-DD)")
				}
			}
			list, err := be.lister.ListUpcoming(ctx, start, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTIME\tNAME\tGUESTS\tOCCASION\tPHONE\tCONFIRMATION")
			for _, r := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%s\t%s\t%s\n",
					r.Date.Format("2006-01-02"), r.Time, r.FirstName, r.LastName, r.Guests, r.Occasion.Label(), r.Phone, r.Confirmation)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&from, "from", "", "first date to include, YYYY-MM-DD (default today)")
	c.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return c
}

func newReservationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show CONFIRMATION",
		Short: "Show one reservation by its confirmation code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			be, _, err := openLister(ctx, cmd)
			if err != nil {
				return err
			}
			defer be.close()

			r, err := be.lister.GetByConfirmation(ctx, args[0])
			if errors.Is(err, internaltypes.ErrNotFound) {
				return fmt.Errorf("no reservation with confirmation %q", args[0])
			}
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Confirmation:\t%s\n", r.Confirmation)
			fmt.Fprintf(tw, "Name:\t%s %s\n", r.FirstName, r.LastName)
			fmt.Fprintf(tw, "Date:\t%s\n", r.Date.Format("2006-01-02"))
			fmt.Fprintf(tw, "Time:\t%s\n", reservation.TimeLabel(r.Time))
			fmt.Fprintf(tw, "Guests:\t%d\n", r.Guests)
			fmt.Fprintf(tw, "Occasion:\t%s\n", r.Occasion.Label())
			fmt.Fprintf(tw, "Email:\t%s\n", r.Email)
			fmt.Fprintf(tw, "Phone:\t%s\n", r.Phone)
			if r.SpecialRequests != "" {
				fmt.Fprintf(tw, "Requests:\t%s\n", r.SpecialRequests)
			}
			fmt.Fprintf(tw, "Booked:\t%s\n", r.CreatedAt.Format(time.RFC3339))
			return tw.Flush()
		},
	}
}
