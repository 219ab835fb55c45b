package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/service"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Scheduled activities and completion history",
	}

	cmd.AddCommand(
		newActivityTodayCmd(app),
		newActivityUpcomingCmd(app),
		newActivityCompleteCmd(app),
		newActivityRescheduleCmd(app),
		newActivityHistoryCmd(app),
	)

	return cmd
}

func newActivityTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Activities.TodaysActivities(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivities("Today", items, app.titles(), app.loc(), app.now()))
			return nil
		},
	}
}

func newActivityUpcomingCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List activities still to do",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Activities.UpcomingActivities(cmd.Context(), days)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Next %d days", days)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivities(title, items, app.titles(), app.loc(), app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days ahead to look")
	return cmd
}

func newActivityCompleteCmd(app *App) *cobra.Command {
	var (
		duration   int
		engagement string
		rating     int
		notes      string
		photos     []string
	)

	cmd := &cobra.Command{
		Use:   "complete TEMPLATE_ID",
		Short: "Record a finished activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateID := args[0]
			tmpl, err := app.Catalog.Get(templateID)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("duration") {
				duration = tmpl.DurationMin
			}

			req := service.CompleteRequest{
				TemplateID:  templateID,
				DurationMin: duration,
				Engagement:  domain.Engagement(strings.ToLower(engagement)),
				Notes:       notes,
				Photos:      photos,
			}
			if cmd.Flags().Changed("rating") {
				req.Rating = &rating
			}

			h, err := app.Activities.CompleteActivity(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %s of %s (%s)\n",
				formatter.StyleGreen.Render("✔"), formatter.FormatMinutes(h.DurationMin),
				formatter.Bold(tmpl.Title), formatter.EngagementIndicator(h.Engagement))
			return nil
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "Minutes spent (defaults to the activity's length)")
	cmd.Flags().StringVar(&engagement, "engagement", string(domain.EngagementMedium), "Engagement: low, medium or high")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes about the session")
	cmd.Flags().StringArrayVar(&photos, "photo", nil, "Photo path or URL (repeatable)")

	return cmd
}

func newActivityRescheduleCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "reschedule ID",
		Short: "Move a scheduled activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseDateTime(at, app.loc())
			if err != nil {
				return err
			}
			a, err := app.Activities.RescheduleActivity(cmd.Context(), args[0], when)
			if err != nil {
				return err
			}
			local := a.ScheduledAt.In(app.loc())
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s %s\n",
				formatter.TruncID(a.ID), formatter.DayLabel(local), formatter.ClockTime(local))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "New time (\"YYYY-MM-DD HH:MM\", local)")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newActivityHistoryCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var entries []*domain.ActivityHistory
			var err error
			if from == "" && to == "" {
				entries, err = app.Activities.History(ctx)
			} else {
				start, end := app.now().AddDate(0, 0, -7), app.now()
				if from != "" {
					if start, err = parseDate(from, app.loc()); err != nil {
						return err
					}
				}
				if to != "" {
					if end, err = parseDate(to, app.loc()); err != nil {
						return err
					}
					end = end.AddDate(0, 0, 1).Add(-1)
				}
				entries, err = app.Activities.HistoryBetween(ctx, start, end)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries, app.titles(), app.loc()))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day to include (YYYY-MM-DD)")

	return cmd
}
