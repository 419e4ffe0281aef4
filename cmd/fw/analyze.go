package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		themes   bool
		patterns bool
		gaps     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Cross-project insight analysis: themes, patterns, coverage gaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.store.ListProjects()
			if err != nil {
				return err
			}
			byProject := map[string][]model.Insight{}
			var all []model.Insight
			for _, p := range projects {
				if p.Archived() {
					continue
				}
				insights, err := a.store.ReadInsights(p.Slug)
				if err != nil {
					return err
				}
				byProject[p.Slug] = insights
				all = append(all, insights...)
			}
			if len(all) == 0 {
				fmt.Println(warnStyle.Render("no insights yet; run 'fw extract <project>' first"))
				return nil
			}

			// Default to everything when no lens is selected.
			if !themes && !patterns && !gaps {
				themes, patterns, gaps = true, true, true
			}

			if themes {
				fmt.Println(headingStyle.Render("Themes"))
				for _, t := range analysis.Themes(all) {
					fmt.Printf("  %-20s %d insights\n", t.Name, t.Count)
				}
			}
			if patterns {
				fmt.Println(headingStyle.Render("Cross-project patterns"))
				found := analysis.Patterns(byProject)
				if len(found) == 0 {
					fmt.Println(dimStyle.Render("  no product area appears in more than one project"))
				}
				for _, p := range found {
					fmt.Printf("  %-20s seen in %d projects\n", p.Name, p.Count)
				}
			}
			if gaps {
				fmt.Println(headingStyle.Render("Coverage gaps"))
				missing := analysis.Gaps(all)
				if len(missing) == 0 {
					fmt.Println(successStyle.Render("  every category has at least one insight"))
				}
				for _, g := range missing {
					fmt.Println(warnStyle.Render("  no insights in: " + g))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&themes, "themes", false, "group insights by category")
	cmd.Flags().BoolVar(&patterns, "patterns", false, "product areas recurring across projects")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "taxonomy categories with no insights")
	return cmd
}
