package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		report bool
		fix    bool
	)

	cmd := &cobra.Command{
		Use:   "audit [project]",
		Short: "Run data-quality checks over one project or the whole corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insights, actions, err := a.corpusRecords(args)
			if err != nil {
				return err
			}
			if fix {
				fixed, err := a.applyFixes(args)
				if err != nil {
					return err
				}
				if fixed > 0 {
					fmt.Println(successStyle.Render(fmt.Sprintf("✓ fixed %d records", fixed)))
					insights, actions, err = a.corpusRecords(args)
					if err != nil {
						return err
					}
				}
			}

			var personas []model.Persona
			if _, err := a.store.Read(store.PersonasPath, &personas); err != nil {
				return err
			}

			timer := metrics.Timer(metrics.AuditRun)
			result := analysis.RunAudit(insights, actions, personas, time.Now().UTC())
			timer()

			if report {
				fmt.Print(renderMarkdown(auditMarkdown(result)))
				return nil
			}
			printAudit(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&report, "report", false, "render the audit as a markdown report")
	cmd.Flags().BoolVar(&fix, "fix", false, "apply safe automatic fixes before auditing")
	return cmd
}

// corpusRecords loads insights and actions for the named project, or for
// every active project when none is given.
func (a *app) corpusRecords(args []string) ([]model.Insight, []model.Action, error) {
	var slugs []string
	if len(args) == 1 {
		slug := args[0]
		if _, found, err := a.store.ReadProject(slug); err != nil {
			return nil, nil, err
		} else if !found {
			return nil, nil, fmt.Errorf("project %q not found", slug)
		}
		slugs = []string{slug}
	} else {
		projects, err := a.store.ListProjects()
		if err != nil {
			return nil, nil, err
		}
		for _, p := range projects {
			if !p.Archived() {
				slugs = append(slugs, p.Slug)
			}
		}
	}

	var insights []model.Insight
	var actions []model.Action
	for _, slug := range slugs {
		ins, err := a.store.ReadInsights(slug)
		if err != nil {
			return nil, nil, err
		}
		insights = append(insights, ins...)
		act, err := a.store.ReadActions(slug)
		if err != nil {
			return nil, nil, err
		}
		actions = append(actions, act...)
	}
	return insights, actions, nil
}

// applyFixes normalizes records the audit would otherwise flag on
// formality alone: missing action status becomes Not Started, whitespace
// is trimmed from titles. Substantive gaps (missing evidence, owners) are
// never auto-filled.
func (a *app) applyFixes(args []string) (int, error) {
	var slugs []string
	if len(args) == 1 {
		slugs = []string{args[0]}
	} else {
		projects, err := a.store.ListProjects()
		if err != nil {
			return 0, err
		}
		for _, p := range projects {
			slugs = append(slugs, p.Slug)
		}
	}

	fixed := 0
	for _, slug := range slugs {
		insights, err := a.store.ReadInsights(slug)
		if err != nil {
			return fixed, err
		}
		changed := false
		for i := range insights {
			if trimmed := strings.TrimSpace(insights[i].Title); trimmed != insights[i].Title {
				insights[i].Title = trimmed
				changed = true
				fixed++
			}
		}
		if changed {
			if err := a.store.WriteInsights(slug, insights); err != nil {
				return fixed, err
			}
		}

		actions, err := a.store.ReadActions(slug)
		if err != nil {
			return fixed, err
		}
		changed = false
		for i := range actions {
			if actions[i].Status == "" {
				actions[i].Status = model.ActionNotStarted
				changed = true
				fixed++
			}
		}
		if changed {
			if err := a.store.WriteActions(slug, actions); err != nil {
				return fixed, err
			}
		}
	}
	return fixed, nil
}

func printAudit(r analysis.AuditResult) {
	fmt.Println(headingStyle.Render("Data quality audit"))
	if len(r.Findings) == 0 {
		fmt.Println(successStyle.Render("✓ no findings"))
		fmt.Printf("quality score: %.2f / 10\n", r.QualityScore)
		return
	}
	for _, f := range r.Findings {
		style := dimStyle
		switch f.Severity {
		case analysis.SeverityCritical:
			style = errorStyle
		case analysis.SeverityWarning:
			style = warnStyle
		}
		fmt.Println(style.Render(fmt.Sprintf("[%s] %s: %d", f.Severity, f.Check, f.Count)))
		for _, d := range f.Details {
			fmt.Println(dimStyle.Render("    " + d))
		}
	}
	fmt.Printf("critical: %d  warning: %d  info: %d\n", r.Criticals, r.Warnings, r.Infos)
	fmt.Printf("quality score: %.2f / 10\n", r.QualityScore)
}

func auditMarkdown(r analysis.AuditResult) string {
	var sb strings.Builder
	sb.WriteString("# Data Quality Audit\n\n")
	fmt.Fprintf(&sb, "**Quality score: %.2f / 10** (critical: %d, warning: %d, info: %d)\n\n",
		r.QualityScore, r.Criticals, r.Warnings, r.Infos)
	if len(r.Findings) == 0 {
		sb.WriteString("No findings.\n")
		return sb.String()
	}
	sb.WriteString("| Check | Severity | Count |\n|---|---|---|\n")
	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "| %s | %s | %d |\n", f.Check, f.Severity, f.Count)
	}
	sb.WriteString("\n")
	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "## %s\n\n", f.Check)
		for _, d := range f.Details {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
