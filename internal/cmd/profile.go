package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/domain"
	evberrors "github.com/evbook/evbook/internal/errors"
	"github.com/evbook/evbook/internal/validate"
)

func newProfileCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newProfileShowCmd(cc), newProfileUpdateCmd(cc))
	return cmd
}

func newProfileShowCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the signed-in profile",
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.Output(newProfileView(cc.Store.Session().Principal))
		},
	}
}

func newProfileUpdateCmd(cc *CommandContext) *cobra.Command {
	var name, phone, vehicleNumber, vehicleType string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Long: `Change one or more profile fields. Only the flags you pass are sent.

Examples:
  evbook profile update --name "Ada Lovelace"
  evbook profile update --vehicle-number KA01AB1234 --vehicle-type car`,
		Annotations: authenticated(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update domain.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("phone") {
				phone = validate.SanitizePhone(phone)
				update.PhoneNumber = &phone
			}
			if flags.Changed("vehicle-number") {
				update.VehicleNumber = &vehicleNumber
			}
			if flags.Changed("vehicle-type") {
				update.VehicleType = &vehicleType
			}
			if update.IsEmpty() {
				return evberrors.NewValidationError("nothing to update").
					WithSuggestion("Pass at least one of --name, --phone, --vehicle-number, --vehicle-type")
			}

			r := cc.Store.SaveProfile(contextOf(cmd), update)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			if r.Principal != nil {
				return cc.Output(newProfileView(r.Principal))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "full name")
	f.StringVar(&phone, "phone", "", "10-digit phone number")
	f.StringVar(&vehicleNumber, "vehicle-number", "", "vehicle registration number")
	f.StringVar(&vehicleType, "vehicle-type", "", "vehicle type")
	return cmd
}
