package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/export"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func newCompetitiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "competitive",
		Aliases: []string{"comp"},
		Short:   "Maintain the competitive intelligence records",
	}
	cmd.AddCommand(
		newCompListCmd(a),
		newCompAddFeatureCmd(a),
		newCompAddPricingCmd(a),
		newCompAddReleaseCmd(a),
		newCompAddPerceptionCmd(a),
		newCompSummaryCmd(a),
	)
	return cmd
}

func newCompListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked competitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var competitors []model.Competitor
			if _, err := a.store.Read(store.CompetitorsPath, &competitors); err != nil {
				return err
			}
			if len(competitors) == 0 {
				fmt.Println(dimStyle.Render("no competitors tracked yet"))
				return nil
			}
			fmt.Println(headingStyle.Render("Competitors"))
			for _, c := range competitors {
				line := fmt.Sprintf("  %-10s %s", c.ID, c.Name)
				if c.Segment != "" {
					line += dimStyle.Render("  (" + c.Segment + ")")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newCompAddFeatureCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add-feature <feature>",
		Short: "Add a row to the feature comparison matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var features []model.FeatureEntry
			if _, err := a.store.Read(store.FeaturesPath, &features); err != nil {
				return err
			}
			entry := model.FeatureEntry{
				ID:       model.NextSequentialID("feat", len(features)),
				Feature:  args[0],
				Category: category,
				Status:   map[string]string{},
				AddedAt:  time.Now().UTC(),
			}
			features = append(features, entry)
			if err := a.store.Write(store.FeaturesPath, features); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ added " + entry.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "feature category")
	return cmd
}

func newCompAddPricingCmd(a *app) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "add-pricing <competitor> <plan> <price>",
		Short: "Record a pricing observation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pricing []model.PricingEntry
			if _, err := a.store.Read(store.PricingPath, &pricing); err != nil {
				return err
			}
			entry := model.PricingEntry{
				ID:         model.NextSequentialID("pricing", len(pricing)),
				Competitor: args[0],
				Plan:       args[1],
				Price:      args[2],
				Notes:      notes,
				AddedAt:    time.Now().UTC(),
			}
			pricing = append(pricing, entry)
			if err := a.store.Write(store.PricingPath, pricing); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ added " + entry.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newCompAddReleaseCmd(a *app) *cobra.Command {
	var (
		date    string
		summary string
	)

	cmd := &cobra.Command{
		Use:   "add-release <competitor> <title>",
		Short: "Record a competitor release",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var releases []model.ReleaseEntry
			if _, err := a.store.Read(store.ReleasesPath, &releases); err != nil {
				return err
			}
			entry := model.ReleaseEntry{
				ID:         model.NextSequentialID("rel", len(releases)),
				Competitor: args[0],
				Title:      args[1],
				Date:       date,
				Summary:    summary,
				AddedAt:    time.Now().UTC(),
			}
			releases = append(releases, entry)
			if err := a.store.Write(store.ReleasesPath, releases); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ added " + entry.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "release date")
	cmd.Flags().StringVar(&summary, "summary", "", "what shipped")
	return cmd
}

func newCompAddPerceptionCmd(a *app) *cobra.Command {
	var (
		source    string
		sentiment string
	)

	cmd := &cobra.Command{
		Use:   "add-perception <competitor> <summary>",
		Short: "Record a market-perception observation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var perception []model.PerceptionEntry
			if _, err := a.store.Read(store.PerceptionPath, &perception); err != nil {
				return err
			}
			entry := model.PerceptionEntry{
				ID:         model.NextSequentialID("per", len(perception)),
				Competitor: args[0],
				Summary:    args[1],
				Source:     source,
				Sentiment:  sentiment,
				AddedAt:    time.Now().UTC(),
			}
			perception = append(perception, entry)
			if err := a.store.Write(store.PerceptionPath, perception); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ added " + entry.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "where the observation came from")
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "positive, neutral or negative")
	return cmd
}

func newCompSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Render the competitive landscape report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.loadCorpus()
			if err != nil {
				return err
			}
			doc, err := export.GenerateReport(export.ReportCompetitive, corpus, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Print(renderMarkdown(doc))
			return nil
		},
	}
}
