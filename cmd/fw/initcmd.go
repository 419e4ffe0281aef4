package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/pkg/model"
	"github.com/kvanderzwet/fieldwork/pkg/scaffold"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		projectType string
		org         string
		notion      bool
	)

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Scaffold a new research project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := scaffold.Options{
				Type:         model.ProjectType(projectType),
				Organization: org,
				Notion:       notion,
			}
			if len(args) > 0 {
				opts.Name = args[0]
			}

			// Prompt for anything missing when on a terminal; piped
			// invocations must pass everything via args and flags.
			if interactive() && (opts.Name == "" || opts.Type == "") {
				if err := initForm(&opts); err != nil {
					return err
				}
			}
			if opts.Name == "" {
				return fmt.Errorf("project name is required")
			}

			p, err := scaffold.CreateProject(a.store, opts)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ created project " + p.Name))
			fmt.Println(dimStyle.Render("  slug: " + p.Slug))
			fmt.Println(dimStyle.Render("  dir:  " + a.store.Abs("projects/"+p.Slug)))
			fmt.Println(dimStyle.Render("  next: drop interview notes into context/, then run 'fw extract " + p.Slug + "'"))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectType, "type", "", "project type (interview, survey, usability, discovery)")
	cmd.Flags().StringVar(&org, "org", "", "organization the project belongs to")
	cmd.Flags().BoolVar(&notion, "notion", false, "enable Notion sync for this project")
	return cmd
}

func initForm(opts *scaffold.Options) error {
	typeOptions := make([]huh.Option[model.ProjectType], 0, len(model.ProjectTypes))
	for _, t := range model.ProjectTypes {
		typeOptions = append(typeOptions, huh.NewOption(string(t), t))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&opts.Name).
				Validate(func(s string) error {
					if model.Slugify(s) == "" {
						return fmt.Errorf("name must contain letters or digits")
					}
					return nil
				}),
			huh.NewSelect[model.ProjectType]().
				Title("Project type").
				Options(typeOptions...).
				Value(&opts.Type),
			huh.NewConfirm().
				Title("Enable Notion sync?").
				Value(&opts.Notion),
		),
	)
	return form.Run()
}
