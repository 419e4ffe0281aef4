package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/export"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		output    string
		sqliteDir string
	)

	cmd := &cobra.Command{
		Use:   "report <type> [period]",
		Short: "Render a markdown report (insights, actions, csat, roi, competitive)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.loadCorpus()
			if err != nil {
				return err
			}
			if len(args) == 2 {
				start, end, err := analysis.PeriodRange(args[1])
				if err != nil {
					return err
				}
				var inRange []model.CSATResponse
				for _, r := range corpus.Responses {
					if !r.SubmittedAt.Before(start) && r.SubmittedAt.Before(end) {
						inRange = append(inRange, r)
					}
				}
				corpus.Responses = inRange
			}

			if sqliteDir != "" {
				timer := metrics.Timer(metrics.SQLiteExport)
				err := export.NewSQLiteExporter(corpus).Export(sqliteDir)
				timer()
				if err != nil {
					return fmt.Errorf("sqlite export: %w", err)
				}
				fmt.Println(successStyle.Render("✓ wrote " + sqliteDir + "/fieldwork.sqlite3"))
			}

			timer := metrics.Timer(metrics.ReportRender)
			doc, err := export.GenerateReport(export.ReportType(args[0]), corpus, time.Now().UTC())
			timer()
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Println(successStyle.Render("✓ wrote " + output))
				return nil
			}
			fmt.Print(renderMarkdown(doc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of the terminal")
	cmd.Flags().StringVar(&sqliteDir, "sqlite", "", "also export a SQLite snapshot to this directory")
	return cmd
}

// loadCorpus reads the full record set the reports and exporters draw from.
func (a *app) loadCorpus() (export.Corpus, error) {
	c := export.Corpus{
		Insights: map[string][]model.Insight{},
		Actions:  map[string][]model.Action{},
	}

	projects, err := a.store.ListProjects()
	if err != nil {
		return c, err
	}
	c.Projects = projects
	for _, p := range projects {
		if c.Insights[p.Slug], err = a.store.ReadInsights(p.Slug); err != nil {
			return c, err
		}
		if c.Actions[p.Slug], err = a.store.ReadActions(p.Slug); err != nil {
			return c, err
		}
	}

	reads := []struct {
		path string
		out  any
	}{
		{store.PersonasPath, &c.Personas},
		{store.CSATResponsesPath, &c.Responses},
		{store.ROITrackingPath, &c.ROI},
		{store.CompetitorsPath, &c.Competitors},
		{store.FeaturesPath, &c.Features},
		{store.PricingPath, &c.Pricing},
		{store.PerceptionPath, &c.Perception},
		{store.ReleasesPath, &c.Releases},
	}
	for _, r := range reads {
		if _, err := a.store.Read(r.path, r.out); err != nil {
			return c, err
		}
	}
	return c, nil
}
