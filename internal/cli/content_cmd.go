package cli

import (
	"fmt"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newContentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Personalized activity guides",
	}

	cmd.AddCommand(
		newContentShowCmd(app),
		newContentCleanupCmd(app),
	)

	return cmd
}

func newContentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TEMPLATE_ID",
		Short: "Show step-by-step guidance for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Content.Personalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatContent(c, app.now()))
			return nil
		},
	}
}

func newContentCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired guides",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Content.CleanupExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired guide(s).\n", n)
			return nil
		},
	}
}
