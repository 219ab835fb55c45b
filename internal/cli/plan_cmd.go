package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Weekly activity plans",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanShowCmd(app),
	)

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Build this week's plan from your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.GenerateWeeklyPlan(cmd.Context(), nil)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(plan, app.titles(), app.loc(), app.now()))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the plan for this or another week",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := app.now()
			if week != "" {
				d, err := parseDate(week, app.loc())
				if err != nil {
					return err
				}
				at = d
			}

			plan, err := app.Plans.PlanForWeek(cmd.Context(), at)
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No plan for that week. Run \"babybond plan generate\" to create one.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(plan, app.titles(), app.loc(), app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "Any date in the week to show (YYYY-MM-DD)")
	return cmd
}
