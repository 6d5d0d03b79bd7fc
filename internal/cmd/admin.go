package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/tui"
	"github.com/evbook/evbook/internal/validate"
)

func newAdminCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
		Long: `Manage bookings, stations, slots and user accounts.

All admin commands need an administrator session: 'evbook login --admin'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newAdminBookingsCmd(cc),
		newAdminUsersCmd(cc),
		newAdminStationsCmd(cc),
		newAdminSlotsCmd(cc),
	)
	return cmd
}

func group(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
}

// idAction builds "<verb> <id>" commands that call fn and print its message.
func idAction(cc *CommandContext, use, short, failure string, fn func(ctx context.Context, id domain.ID) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:         use + " <id>",
		Short:       short,
		Args:        cobra.ExactArgs(1),
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := fn(contextOf(cmd), domain.ID(args[0]))
			if err != nil {
				return cc.apiFailure(err, failure)
			}
			return cc.Output(message{orDefault(msg, "Done")})
		},
	}
}

func newAdminBookingsCmd(cc *CommandContext) *cobra.Command {
	cmd := group("bookings", "Review pending bookings")
	pending := &cobra.Command{
		Use:         "pending",
		Short:       "List bookings awaiting approval",
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := cc.Client.ListPendingBookings(contextOf(cmd))
			if err != nil {
				return cc.apiFailure(err, "Failed to load pending bookings")
			}
			return cc.Output(bookingTable(bookings))
		},
	}
	cmd.AddCommand(
		pending,
		idAction(cc, "approve", "Approve a pending booking", "Failed to approve booking", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.ApproveBooking(ctx, id)
		}),
		idAction(cc, "reject", "Reject a pending booking", "Failed to reject booking", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.RejectBooking(ctx, id)
		}),
	)
	return cmd
}

func newAdminUsersCmd(cc *CommandContext) *cobra.Command {
	cmd := group("users", "Manage user accounts")
	list := &cobra.Command{
		Use:         "list",
		Short:       "List user accounts",
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := cc.Client.ListAccounts(contextOf(cmd))
			if err != nil {
				return cc.apiFailure(err, "Failed to load users")
			}
			return cc.Output(accountTable(accounts))
		},
	}

	var yes bool
	del := idAction(cc, "delete", "Delete a user account", "Failed to delete user", func(ctx context.Context, id domain.ID) (string, error) {
		if !yes && tui.ShouldPrompt() {
			confirmed, err := tui.Confirm("Delete user " + id.String() + " and all their bookings?")
			if err != nil {
				return "", err
			}
			if !confirmed {
				return "Kept user " + id.String() + ".", nil
			}
		}
		return cc.Client.DeleteAccount(ctx, id)
	})
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(
		list,
		idAction(cc, "block", "Block a user account", "Failed to block user", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.BlockAccount(ctx, id)
		}),
		idAction(cc, "unblock", "Unblock a user account", "Failed to unblock user", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.UnblockAccount(ctx, id)
		}),
		del,
	)
	return cmd
}

type stationFlags struct {
	name, location, charging, status string
	slots                            int
}

func (s *stationFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.name, "name", "", "station name")
	f.StringVar(&s.location, "location", "", "station address")
	f.IntVar(&s.slots, "total-slots", 1, "number of charging slots")
	f.StringVar(&s.charging, "charging-type", "fast", "charging type: fast, slow")
	f.StringVar(&s.status, "status", "active", "station status: active, inactive, maintenance")
}

func (s *stationFlags) input() (domain.StationInput, error) {
	if err := invalid(validate.StationForm{
		Name:         s.name,
		Location:     s.location,
		TotalSlots:   s.slots,
		ChargingType: s.charging,
		Status:       s.status,
	}); err != nil {
		return domain.StationInput{}, err
	}
	return domain.StationInput{
		Name:         s.name,
		Location:     s.location,
		TotalSlots:   s.slots,
		ChargingType: s.charging,
		Status:       s.status,
	}, nil
}

func newAdminStationsCmd(cc *CommandContext) *cobra.Command {
	cmd := group("stations", "Manage charging stations")

	var create stationFlags
	createCmd := &cobra.Command{
		Use:         "create",
		Short:       "Add a charging station",
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := create.input()
			if err != nil {
				return err
			}
			msg, err := cc.Client.CreateStation(contextOf(cmd), in)
			if err != nil {
				return cc.apiFailure(err, "Failed to create station")
			}
			return cc.Output(message{orDefault(msg, "Station created")})
		},
	}
	create.bind(createCmd)

	var update stationFlags
	updateCmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Replace a station's details",
		Args:        cobra.ExactArgs(1),
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := update.input()
			if err != nil {
				return err
			}
			msg, err := cc.Client.UpdateStation(contextOf(cmd), domain.ID(args[0]), in)
			if err != nil {
				return cc.apiFailure(err, "Failed to update station")
			}
			return cc.Output(message{orDefault(msg, "Station updated")})
		},
	}
	update.bind(updateCmd)

	cmd.AddCommand(
		createCmd,
		updateCmd,
		idAction(cc, "delete", "Remove a station and its slots", "Failed to delete station", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.DeleteStation(ctx, id)
		}),
	)
	return cmd
}

type slotFlags struct {
	station, status string
	number          int
}

func (s *slotFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.station, "station", "", "station ID")
	f.IntVar(&s.number, "number", 0, "slot number within the station")
	f.StringVar(&s.status, "status", "available", "slot status: available, occupied, maintenance")
}

func (s *slotFlags) input() (domain.SlotInput, error) {
	if err := invalid(validate.SlotForm{StationID: s.station, Number: s.number, Status: s.status}); err != nil {
		return domain.SlotInput{}, err
	}
	return domain.SlotInput{StationID: domain.ID(s.station), Number: s.number, Status: s.status}, nil
}

func newAdminSlotsCmd(cc *CommandContext) *cobra.Command {
	cmd := group("slots", "Manage charging slots")

	list := &cobra.Command{
		Use:         "list",
		Short:       "List every slot",
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := cc.Client.ListSlots(contextOf(cmd))
			if err != nil {
				return cc.apiFailure(err, "Failed to load slots")
			}
			return cc.Output(slotTable(slots))
		},
	}

	var create slotFlags
	createCmd := &cobra.Command{
		Use:         "create",
		Short:       "Add a slot to a station",
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := create.input()
			if err != nil {
				return err
			}
			msg, err := cc.Client.CreateSlot(contextOf(cmd), in)
			if err != nil {
				return cc.apiFailure(err, "Failed to create slot")
			}
			return cc.Output(message{orDefault(msg, "Slot created")})
		},
	}
	create.bind(createCmd)

	var update slotFlags
	updateCmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Replace a slot's details",
		Args:        cobra.ExactArgs(1),
		Annotations: administrative(),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := update.input()
			if err != nil {
				return err
			}
			msg, err := cc.Client.UpdateSlot(contextOf(cmd), domain.ID(args[0]), in)
			if err != nil {
				return cc.apiFailure(err, "Failed to update slot")
			}
			return cc.Output(message{orDefault(msg, "Slot updated")})
		},
	}
	update.bind(updateCmd)

	cmd.AddCommand(
		list,
		createCmd,
		updateCmd,
		idAction(cc, "delete", "Remove a slot", "Failed to delete slot", func(ctx context.Context, id domain.ID) (string, error) {
			return cc.Client.DeleteSlot(ctx, id)
		}),
	)
	return cmd
}
