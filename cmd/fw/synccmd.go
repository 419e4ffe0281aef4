package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/pkg/notion"
)

func pullSummary(r notion.SyncResult) string {
	return fmt.Sprintf("✓ pulled %d insights (%d failed)", r.Pulled, r.Failed)
}

func pushSummary(label string, r notion.SyncResult) string {
	return fmt.Sprintf("%s %d pushed, %d failed", label, r.Pushed, r.Failed)
}

func newSyncCmd(a *app) *cobra.Command {
	var (
		push   bool
		pull   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync <project>",
		Short: "Push or pull project records to Notion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if _, found, err := a.store.ReadProject(slug); err != nil {
				return err
			} else if !found {
				return fmt.Errorf("project %q not found", slug)
			}
			if push == pull {
				return fmt.Errorf("pass exactly one of --push or --pull")
			}
			if a.cfg.NotionToken == "" {
				return fmt.Errorf("NOTION_TOKEN is not set (add it to .env or the environment)")
			}
			if a.cfg.Notion.InsightsDatabase == "" {
				return fmt.Errorf("notion.insights_database is not configured in fieldwork.yaml")
			}

			log := logrus.New()
			if !interactive() {
				log.SetOutput(io.Discard)
			}
			client := notion.NewClient(a.cfg.NotionToken, log)
			syncer := notion.NewSyncer(client, a.cfg.Notion, log)
			syncer.DryRun = dryRun

			ctx := cmd.Context()
			if pull {
				insights, result, err := syncer.PullInsights(ctx)
				if err != nil {
					return fmt.Errorf("pulling from Notion: %w", err)
				}
				if dryRun {
					fmt.Println(warnStyle.Render(fmt.Sprintf("dry run: would write %d insights to %s", len(insights), slug)))
					return nil
				}
				if err := a.store.WriteInsights(slug, insights); err != nil {
					return err
				}
				fmt.Println(successStyle.Render(pullSummary(result)))
				return nil
			}

			insights, err := a.store.ReadInsights(slug)
			if err != nil {
				return err
			}
			actions, err := a.store.ReadActions(slug)
			if err != nil {
				return err
			}

			insResult := syncer.PushInsights(ctx, insights)
			fmt.Println(successStyle.Render(pushSummary("insights:", insResult)))

			if a.cfg.Notion.ActionsDatabase != "" {
				actResult := syncer.PushActions(ctx, actions)
				fmt.Println(successStyle.Render(pushSummary("actions: ", actResult)))
			} else if len(actions) > 0 {
				fmt.Println(warnStyle.Render("skipping actions: notion.actions_database not configured"))
			}

			if insResult.Failed > 0 {
				fmt.Println(hintStyle.Render("failed records were skipped; re-running the sync reprocesses everything"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&push, "push", false, "push local records to Notion")
	cmd.Flags().BoolVar(&pull, "pull", false, "pull insights from Notion into the local store")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without writing anything")
	return cmd
}
