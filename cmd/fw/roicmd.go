package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/export"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func newROICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Track CSAT/NPS movement attributed to implemented actions",
	}
	cmd.AddCommand(newROITrackCmd(a), newROIStatusCmd(a), newROIReportCmd(a))
	return cmd
}

func newROITrackCmd(a *app) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "track <project> <actionId>",
		Short: "Record the period-over-period movement for an action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, actionID := args[0], args[1]
			if _, found, err := a.store.ReadProject(slug); err != nil {
				return err
			} else if !found {
				return fmt.Errorf("project %q not found", slug)
			}
			if period == "" {
				return fmt.Errorf("--period is required (format YYYY-Qn, e.g. 2026-Q1)")
			}

			actions, err := a.store.ReadActions(slug)
			if err != nil {
				return err
			}
			known := false
			for _, act := range actions {
				if act.ID == actionID {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("action %q not found in project %q", actionID, slug)
			}

			var metricsDoc model.QuarterlyMetrics
			if _, err := a.store.Read(store.QuarterlyMetricsPath, &metricsDoc); err != nil {
				return err
			}

			entry, err := analysis.TrackROI(actionID, slug, period, a.cfg.Organization, metricsDoc, time.Now().UTC())
			if err != nil {
				return err
			}

			var tracking model.ROITracking
			if _, err := a.store.Read(store.ROITrackingPath, &tracking); err != nil {
				return err
			}
			tracking.Upsert(entry)
			if err := a.store.Write(store.ROITrackingPath, tracking); err != nil {
				return err
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("✓ tracked %s (%s vs %s)", actionID, entry.ImplementedPeriod, entry.PreviousPeriod)))
			printDelta("CSAT", entry.Metrics.CSAT)
			printDelta("NPS", entry.Metrics.NPS)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "quarter the action was implemented in (YYYY-Qn)")
	return cmd
}

func newROIStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every tracked action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tracking model.ROITracking
			if _, err := a.store.Read(store.ROITrackingPath, &tracking); err != nil {
				return err
			}
			if len(tracking.TrackedActions) == 0 {
				fmt.Println(dimStyle.Render("no tracked actions yet; run 'fw roi track'"))
				return nil
			}
			fmt.Println(headingStyle.Render("Tracked actions"))
			for _, e := range tracking.TrackedActions {
				fmt.Printf("  %s/%s: %s vs %s\n", e.Project, e.ActionID, e.ImplementedPeriod, e.PreviousPeriod)
				printDelta("    CSAT", e.Metrics.CSAT)
				printDelta("    NPS", e.Metrics.NPS)
			}
			return nil
		},
	}
}

func newROIReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Render the ROI markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.loadCorpus()
			if err != nil {
				return err
			}
			doc, err := export.GenerateReport(export.ReportROI, corpus, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Print(renderMarkdown(doc))
			return nil
		},
	}
}

func printDelta(name string, d model.MetricDelta) {
	if d.Delta == nil {
		fmt.Println(dimStyle.Render(fmt.Sprintf("  %s: incomplete (missing before or after metric)", name)))
		return
	}
	style := successStyle
	if *d.Delta < 0 {
		style = errorStyle
	}
	fmt.Println(style.Render(fmt.Sprintf("  %s: %+.2f (%.2f -> %.2f)", name, *d.Delta, *d.Before, *d.After)))
}
