// Command fw is the fieldwork CLI: research project scaffolding, agent
// prompt generation, flat-file record keeping, reporting, and the
// dashboard API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/debug"
	"github.com/kvanderzwet/fieldwork/pkg/version"
)

// app carries the loaded configuration and store into every command.
// Loaded once in the root PersistentPreRunE, never mutated after.
type app struct {
	workspace string
	cfg       config.Config
	store     *store.Store
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "fw",
		Short:         "Research operations: projects, insights, actions, and the dashboard",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			a.workspace = wd
			cfg, err := config.Load(wd)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.store = store.New(store.DataDir(wd))
			debug.Log("workspace=%s data=%s", wd, a.store.Root)
			return nil
		},
	}

	root.AddCommand(
		newInitCmd(a),
		newPromptCmd(a, "extract", "Generate the insight-extraction prompt for a project"),
		newPromptCmd(a, "review", "Generate the insight-review prompt for a project"),
		newPromptCmd(a, "action", "Generate the action-planning prompt for a project"),
		newPromptCmd(a, "persona", "Generate the persona-synthesis prompt for a project"),
		newAuditCmd(a),
		newSyncCmd(a),
		newAnalyzeCmd(a),
		newReportCmd(a),
		newROICmd(a),
		newCompetitiveCmd(a),
		newVocCmd(a),
		newServeCmd(a),
		newDoctorCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		if hint := remediation(err); hint != "" {
			fmt.Fprintln(os.Stderr, hintStyle.Render(hint))
		}
		os.Exit(1)
	}
}
