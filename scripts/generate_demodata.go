//go:build ignore

// generate_demodata.go seeds a workspace with deterministic demo records.
// Usage: go run scripts/generate_demodata.go [workspace]
//
// Creates under <workspace>/.fieldwork:
//   projects/checkout-study/   (12 insights, 6 actions)
//   projects/mobile-pilot/     (6 insights, 3 actions)
//   shared/csat-responses.json (24 responses across both projects)
package main

import (
	"fmt"
	"os"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/model"
	"github.com/kvanderzwet/fieldwork/pkg/testutil"
)

type projectSpec struct {
	slug     string
	insights int
	actions  int
}

var projects = []projectSpec{
	{"checkout-study", 12, 6},
	{"mobile-pilot", 6, 3},
}

func main() {
	workspace := "."
	if len(os.Args) > 1 {
		workspace = os.Args[1]
	}
	s := store.New(store.DataDir(workspace))

	var responses []model.CSATResponse
	for _, p := range projects {
		gen := testutil.New(testutil.GeneratorConfig{Seed: int64(len(p.slug)), IDPrefix: p.slug})

		if err := s.WriteProject(gen.Project(p.slug)); err != nil {
			fail("write project %s: %v", p.slug, err)
		}
		if err := s.WriteInsights(p.slug, gen.Insights(p.insights)); err != nil {
			fail("write insights %s: %v", p.slug, err)
		}
		if err := s.WriteActions(p.slug, gen.Actions(p.actions)); err != nil {
			fail("write actions %s: %v", p.slug, err)
		}
		responses = append(responses, gen.CSATResponses(p.insights, p.slug)...)

		fmt.Printf("seeded %s (%d insights, %d actions)\n", p.slug, p.insights, p.actions)
	}

	if err := s.Write(store.CSATResponsesPath, responses); err != nil {
		fail("write csat responses: %v", err)
	}
	fmt.Printf("seeded %d CSAT responses\n", len(responses))
	fmt.Println("\nDone! Demo data created in", s.Abs("."))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
