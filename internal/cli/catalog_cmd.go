package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the activity catalog",
	}

	cmd.AddCommand(newCatalogListCmd(app))
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	var age string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activity templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if age == "" {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog("Catalog", app.Catalog.All()))
				return nil
			}

			group := domain.AgeGroup(strings.ToLower(age))
			if !group.Valid() {
				return fmt.Errorf("unknown age group %q (want one of %s)", age, joinAgeGroups())
			}
			title := "Catalog: " + formatter.AgeGroupLabel(group)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(title, app.Catalog.ByAgeGroup(group)))
			return nil
		},
	}

	cmd.Flags().StringVar(&age, "age", "", "Only show one age group")
	return cmd
}

func joinAgeGroups() string {
	names := make([]string, len(domain.AllAgeGroups))
	for i, g := range domain.AllAgeGroups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}
