package cli

import (
	"fmt"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileCreateCmd(app),
		newProfileUpdateCmd(app),
		newProfileOnboardCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Profiles.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p, app.now()))
			return nil
		},
	}
}

func newProfileCreateCmd(app *App) *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create your profile",
		Long:  "Create your profile. Without flags on an interactive terminal a short questionnaire is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ProfilePatch
			var err error

			if cmd.Flags().NFlag() == 0 && app.interactive() {
				values := newProfileFormValues()
				if err := profileForm(values).RunWithContext(cmd.Context()); err != nil {
					return err
				}
				patch, err = values.patch(app.loc())
			} else {
				patch, err = flags.patch(cmd.Flags(), app.loc())
			}
			if err != nil {
				return err
			}

			p, err := app.Profiles.CreateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p, app.now()))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newProfileUpdateCmd(app *App) *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd.Flags(), app.loc())
			if err != nil {
				return err
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass at least one flag")
			}

			p, err := app.Profiles.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p, app.now()))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newProfileOnboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Mark onboarding as complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Profiles.CompleteOnboarding(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔")+" Onboarding complete. Run \"babybond plan generate\" to get your first week.")
			return nil
		},
	}
}
