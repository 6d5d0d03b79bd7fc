package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/tui"
	"github.com/evbook/evbook/internal/validate"
)

func newStationsCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Browse charging stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List charging stations",
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, err := cc.Client.ListStations(contextOf(cmd))
			if err != nil {
				return cc.apiFailure(err, "Failed to load stations")
			}
			return cc.Output(stationTable(stations))
		},
	}

	slots := &cobra.Command{
		Use:         "slots <station-id>",
		Short:       "List the slots of a station",
		Args:        cobra.ExactArgs(1),
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := cc.Client.ListStationSlots(contextOf(cmd), domain.ID(args[0]))
			if err != nil {
				return cc.apiFailure(err, "Failed to load slots")
			}
			return cc.Output(slotTable(slots))
		},
	}

	cmd.AddCommand(list, slots)
	return cmd
}

// bookingFlags are shared by create and update.
type bookingFlags struct {
	station, slot, date, start, end string
}

func (b *bookingFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.station, "station", "", "station ID")
	f.StringVar(&b.slot, "slot", "", "slot ID")
	f.StringVar(&b.date, "date", "", "booking date (YYYY-MM-DD)")
	f.StringVar(&b.start, "start", "", "start time (HH:MM)")
	f.StringVar(&b.end, "end", "", "end time (HH:MM)")
}

func (b *bookingFlags) request() (domain.BookingRequest, error) {
	form := validate.BookingForm{
		StationID: b.station,
		SlotID:    b.slot,
		Date:      b.date,
		StartTime: b.start,
		EndTime:   b.end,
	}
	if err := invalid(form); err != nil {
		return domain.BookingRequest{}, err
	}
	return domain.BookingRequest{
		StationID: domain.ID(b.station),
		SlotID:    domain.ID(b.slot),
		Date:      b.date,
		StartTime: b.start,
		EndTime:   b.end,
	}, nil
}

func newBookingsCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List your bookings",
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := cc.Client.ListMyBookings(contextOf(cmd))
			if err != nil {
				return cc.apiFailure(err, "Failed to load bookings")
			}
			return cc.Output(bookingTable(bookings))
		},
	}

	var create bookingFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Book a charging slot",
		Long: `Book a charging slot. New bookings wait for an administrator's approval.

Example:
  evbook bookings create --station 1 --slot 3 --date 2026-03-02 --start 10:00 --end 11:00`,
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := create.request()
			if err != nil {
				return err
			}
			msg, err := cc.Client.CreateBooking(contextOf(cmd), req)
			if err != nil {
				return cc.apiFailure(err, "Failed to create booking")
			}
			return cc.Output(message{orDefault(msg, "Booking created")})
		},
	}
	create.bind(createCmd)

	var update bookingFlags
	updateCmd := &cobra.Command{
		Use:         "update <booking-id>",
		Short:       "Change a pending booking",
		Args:        cobra.ExactArgs(1),
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := update.request()
			if err != nil {
				return err
			}
			msg, err := cc.Client.UpdateBooking(contextOf(cmd), domain.ID(args[0]), req)
			if err != nil {
				return cc.apiFailure(err, "Failed to update booking")
			}
			return cc.Output(message{orDefault(msg, "Booking updated")})
		},
	}
	update.bind(updateCmd)

	var yes bool
	cancelCmd := &cobra.Command{
		Use:         "cancel <booking-id>",
		Short:       "Cancel a pending booking",
		Args:        cobra.ExactArgs(1),
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && tui.ShouldPrompt() {
				confirmed, err := tui.Confirm("Cancel booking " + args[0] + "?")
				if err != nil {
					return err
				}
				if !confirmed {
					cc.Println("Kept booking " + args[0] + ".")
					return nil
				}
			}
			msg, err := cc.Client.CancelBooking(contextOf(cmd), domain.ID(args[0]))
			if err != nil {
				return cc.apiFailure(err, "Failed to cancel booking")
			}
			return cc.Output(message{orDefault(msg, "Booking cancelled")})
		},
	}
	cancelCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	stats := &cobra.Command{
		Use:         "stats",
		Short:       "Summarise your bookings",
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := cc.Store.Session().Principal
			stats, err := cc.Client.UserStats(contextOf(cmd), p.ID)
			if err != nil {
				return cc.apiFailure(err, "Failed to load statistics")
			}
			return cc.Output(statsView(*stats))
		},
	}

	cmd.AddCommand(list, createCmd, updateCmd, cancelCmd, stats)
	return cmd
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
