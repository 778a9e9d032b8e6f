package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the ledger owner's profile",
	}
	cmd.AddCommand(showProfileCmd())
	cmd.AddCommand(setProfileCmd())
	return cmd
}

func showProfileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user := a.store.Snapshot().User
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.WalletIcon+" "+user.Name, profileText(user)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func profileText(user model.User) string {
	active := "no"
	if user.IsActive {
		active = "yes"
	}
	return fmt.Sprintf("Profile:      %s\nCurrency:     %s\nBase salary:  %s\nActive:       %s",
		user.ProfileType, user.Currency, cli.Money(user.Currency, user.BaseSalary), active)
}

func setProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Change profile fields",
		Example: `  budget profile set --name "Ana & Rui" --profile-type family --salary 9200`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			patch, err := userPatch(cmd)
			if err != nil {
				return err
			}
			if err := a.store.UpdateUser(cmd.Context(), patch); err != nil {
				return err
			}
			printSuccess(cmd, "Profile updated")
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("profile-type", "", "individual or family")
	cmd.Flags().String("currency", "", "currency code, e.g. BRL")
	cmd.Flags().String("salary", "", "planned monthly income")
	cmd.Flags().Bool("active", true, "whether the profile is active")
	return cmd
}

func userPatch(cmd *cobra.Command) (model.UserPatch, error) {
	var patch model.UserPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		patch.Name = &v
	}
	if flags.Changed("profile-type") {
		v, _ := flags.GetString("profile-type")
		patch.ProfileType = ptr(model.ProfileType(v))
	}
	if flags.Changed("currency") {
		v, _ := flags.GetString("currency")
		patch.Currency = &v
	}
	if flags.Changed("salary") {
		v, _ := flags.GetString("salary")
		salary, err := parseAmount(v)
		if err != nil {
			return patch, err
		}
		patch.BaseSalary = &salary
	}
	if flags.Changed("active") {
		v, _ := flags.GetBool("active")
		patch.IsActive = &v
	}
	return patch, patch.Validate()
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reporting settings",
	}
	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())
	return cmd
}

func showSettingsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			settings := a.store.Snapshot().Settings
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), settings)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fiscal start month: %d\nAlert threshold:    %s\n",
				settings.StartMonth, cli.Percent(settings.Threshold()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func setSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Change settings",
		Example: `  budget settings set --threshold 90`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			patch, err := settingsPatch(cmd)
			if err != nil {
				return err
			}
			if err := a.store.UpdateSettings(cmd.Context(), patch); err != nil {
				return err
			}
			printSuccess(cmd, "Settings updated")
			return nil
		},
	}
	cmd.Flags().Int("start-month", 0, "fiscal start month, 0 (January) to 11")
	cmd.Flags().String("threshold", "", "alert threshold in percent, above 0 and at most 100")
	return cmd
}

func settingsPatch(cmd *cobra.Command) (model.SettingsPatch, error) {
	var patch model.SettingsPatch
	flags := cmd.Flags()
	if flags.Changed("start-month") {
		v, _ := flags.GetInt("start-month")
		patch.StartMonth = &v
	}
	if flags.Changed("threshold") {
		raw, _ := flags.GetString("threshold")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return patch, fmt.Errorf("%w: threshold %q is not a number", model.ErrInvalidInput, raw)
		}
		patch.AlertThreshold = &v
	}
	return patch, patch.Validate()
}
