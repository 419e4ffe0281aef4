package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/agent"
	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/model"
	"github.com/kvanderzwet/fieldwork/pkg/version"
)

// newDoctorCmd diagnoses the workspace: data directory health, config
// presence, agent availability, Notion wiring. Informational only; doctor
// never mutates anything.
func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace setup and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(headingStyle.Render("fieldwork " + version.Version))

			ok := func(msg string) { fmt.Println(successStyle.Render("  ✓ " + msg)) }
			warn := func(msg string) { fmt.Println(warnStyle.Render("  ! " + msg)) }
			info := func(msg string) { fmt.Println(dimStyle.Render("  · " + msg)) }

			if _, err := os.Stat(a.store.Root); err == nil {
				ok("data directory: " + a.store.Root)
			} else {
				warn("data directory missing: " + a.store.Root + " (created on first 'fw init')")
			}

			if _, err := os.Stat(a.workspace + "/" + config.DefaultConfigFile); err == nil {
				ok("config: " + config.DefaultConfigFile)
			} else {
				info("no " + config.DefaultConfigFile + ", using defaults")
			}

			projects, err := a.store.ListProjects()
			if err != nil {
				return err
			}
			active := 0
			for _, p := range projects {
				if !p.Archived() {
					active++
				}
			}
			ok(fmt.Sprintf("projects: %d active, %d total", active, len(projects)))

			if agent.Available(a.cfg.Agent) {
				ok("agent binary: " + a.cfg.Agent.Binary)
			} else {
				warn("agent binary " + a.cfg.Agent.Binary + " not on PATH; prompt commands will print manual instructions")
			}

			switch {
			case a.cfg.NotionToken == "":
				info("Notion sync not configured (NOTION_TOKEN unset)")
			case a.cfg.Notion.InsightsDatabase == "":
				warn("NOTION_TOKEN set but notion.insights_database missing from " + config.DefaultConfigFile)
			default:
				ok("Notion sync configured")
			}

			if a.cfg.Server.Auth {
				if a.cfg.AdminToken == "" {
					warn("server auth enabled but FW_ADMIN_TOKEN unset; no caller can get the admin role")
				} else {
					ok("server auth enabled")
				}
			} else {
				info("server auth disabled; every API caller is admin")
			}

			var responses []model.CSATResponse
			if _, err := a.store.Read(store.CSATResponsesPath, &responses); err != nil {
				return err
			}
			missing := 0
			for _, r := range responses {
				if r.Scores.OverallSatisfaction == nil {
					missing++
				}
			}
			if missing > 0 {
				info(fmt.Sprintf("%d of %d CSAT responses have no overall-satisfaction score; they count as 0 in the average", missing, len(responses)))
			}

			return nil
		},
	}
}
