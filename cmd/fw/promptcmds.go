package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/agent"
	"github.com/kvanderzwet/fieldwork/pkg/model"
	"github.com/kvanderzwet/fieldwork/pkg/prompts"
)

// newPromptCmd builds one of the prompt-generating commands (extract,
// review, action, persona). Each writes .prompts/<type>.md and optionally
// hands off to the external agent.
func newPromptCmd(a *app, name, short string) *cobra.Command {
	var (
		run     bool
		preview bool
	)

	cmd := &cobra.Command{
		Use:   name + " <project>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			project, found, err := a.store.ReadProject(slug)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("project %q not found (run 'fw init' first)", slug)
			}

			in, err := a.promptInput(project)
			if err != nil {
				return err
			}
			promptType := prompts.Type(name)
			doc, err := prompts.Generate(promptType, in)
			if err != nil {
				return err
			}

			relPath := store.PromptPath(slug, name)
			if err := os.MkdirAll(filepath.Dir(a.store.Abs(relPath)), 0o755); err != nil {
				return fmt.Errorf("creating .prompts directory: %w", err)
			}
			absPath := a.store.Abs(relPath)
			if err := os.WriteFile(absPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing prompt: %w", err)
			}
			fmt.Println(successStyle.Render("✓ wrote " + relPath))

			if preview {
				fmt.Print(renderMarkdown(doc))
			}
			if !run {
				return nil
			}

			projectDir := a.store.Abs(store.ProjectDir(slug))
			if !agent.Available(a.cfg.Agent) {
				fmt.Println(warnStyle.Render("agent binary not found, run it manually:"))
				fmt.Println(agent.ManualInstructions(a.cfg.Agent, absPath))
				return nil
			}
			if err := agent.Run(cmd.Context(), a.cfg.Agent, absPath, projectDir); err != nil {
				return fmt.Errorf("agent run: %w", err)
			}
			fmt.Println(successStyle.Render("✓ agent finished"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&run, "agent", false, "invoke the external agent on the generated prompt")
	cmd.Flags().BoolVar(&preview, "preview", false, "render the prompt in the terminal")
	return cmd
}

// promptInput gathers the record set the templates interpolate.
func (a *app) promptInput(project model.Project) (prompts.Input, error) {
	in := prompts.Input{Project: project, Now: time.Now().UTC()}

	insights, err := a.store.ReadInsights(project.Slug)
	if err != nil {
		return in, err
	}
	in.Insights = insights

	actions, err := a.store.ReadActions(project.Slug)
	if err != nil {
		return in, err
	}
	in.Actions = actions

	if _, err := a.store.Read(store.PersonasPath, &in.Personas); err != nil {
		return in, err
	}

	in.ContextFiles, err = listContextFiles(a.store.Abs(store.ProjectDir(project.Slug)))
	return in, err
}

// listContextFiles returns project-relative paths of raw research material
// under context/.
func listContextFiles(projectDir string) ([]string, error) {
	contextDir := filepath.Join(projectDir, "context")
	entries, err := os.ReadDir(contextDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading context directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join("context", e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
