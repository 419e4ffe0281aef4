// Package prompts generates the Markdown prompt files handed to the
// external AI agent. Generation is pure interpolation: project metadata and
// the relevant record set are embedded as fenced JSON below a fixed
// instruction scaffold. Nothing here parses agent output; the agent writes
// its results straight into the project's JSON files.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// Type identifies a prompt template.
type Type string

const (
	TypeExtract     Type = "extract"
	TypeReview      Type = "review"
	TypeAction      Type = "action"
	TypePersona     Type = "persona"
	TypeCompetitive Type = "competitive"
)

// Types lists every prompt type a project command can generate.
var Types = []Type{TypeExtract, TypeReview, TypeAction, TypePersona, TypeCompetitive}

// Input carries everything a template interpolates. Only the fields a given
// type needs are consulted.
type Input struct {
	Project  model.Project
	Insights []model.Insight
	Actions  []model.Action
	Personas []model.Persona
	// ContextFiles lists raw research material (interview notes, transcripts)
	// the agent should read, relative to the project directory.
	ContextFiles []string
	Now          time.Time
}

// Generate renders the prompt document for the given type.
func Generate(t Type, in Input) (string, error) {
	switch t {
	case TypeExtract:
		return extractPrompt(in)
	case TypeReview:
		return reviewPrompt(in)
	case TypeAction:
		return actionPrompt(in)
	case TypePersona:
		return personaPrompt(in)
	case TypeCompetitive:
		return competitivePrompt(in)
	default:
		return "", fmt.Errorf("unknown prompt type %q", t)
	}
}

func header(sb *strings.Builder, title string, in Input) {
	fmt.Fprintf(sb, "# %s — %s\n\n", title, in.Project.Name)
	fmt.Fprintf(sb, "*Project: %s (type: %s) — generated %s*\n\n",
		in.Project.Slug, in.Project.Type, in.Now.Format(time.RFC1123))
}

// fencedJSON appends v as an indented ```json block. Marshal failures are
// impossible for the record types embedded here, but surface as an error
// comment rather than a panic if they ever happen.
func fencedJSON(sb *strings.Builder, heading string, v any) {
	fmt.Fprintf(sb, "## %s\n\n```json\n", heading)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(sb, "// marshal error: %v\n", err)
	} else {
		sb.Write(data)
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")
}

func contextSection(sb *strings.Builder, in Input) {
	if len(in.ContextFiles) == 0 {
		return
	}
	sb.WriteString("## Source material\n\nRead every file below before producing output:\n\n")
	for _, f := range in.ContextFiles {
		fmt.Fprintf(sb, "- `%s`\n", f)
	}
	sb.WriteString("\n")
}

func taxonomySection(sb *strings.Builder) {
	sb.WriteString("## Categorization taxonomy\n\nUse exactly these categories:\n\n")
	for _, c := range model.InsightCategories {
		fmt.Fprintf(sb, "- %s\n", c)
	}
	sb.WriteString("\nImpact levels: Critical, High, Medium, Low. Confidence levels: High, Medium, Low.\n\n")
}

func extractPrompt(in Input) (string, error) {
	var sb strings.Builder
	header(&sb, "Insight Extraction", in)
	sb.WriteString("You are a senior UX researcher. Extract atomic insights from the raw research material in this project's `context/` directory.\n\n")
	contextSection(&sb, in)
	taxonomySection(&sb)
	sb.WriteString(`## Output schema

Write a JSON array to ` + "`insights.json`" + ` in the project directory. Each element:

` + "```json" + `
{
  "id": "<uuid>",
  "title": "...",
  "category": "<taxonomy category>",
  "impactLevel": "Critical|High|Medium|Low",
  "confidenceLevel": "High|Medium|Low",
  "evidence": ["verbatim quote or observation", "..."],
  "recommendedActions": ["..."],
  "productArea": "...",
  "customerSegment": "...",
  "tags": ["..."]
}
` + "```" + `

## Quality bar

- One finding per insight; split compound findings.
- Every insight cites at least one piece of verbatim evidence.
- No speculation: if the material does not support it, leave it out.
- The file is overwritten wholesale; include every insight, not a delta.
`)
	return sb.String(), nil
}

func reviewPrompt(in Input) (string, error) {
	var sb strings.Builder
	header(&sb, "Insight Review", in)
	sb.WriteString("Review the extracted insights below for evidence strength, clarity, and actionability. Rewrite weak titles, merge duplicates, and fill missing fields. Write the full corrected array back to `insights.json`.\n\n")
	fencedJSON(&sb, "Current insights", in.Insights)
	taxonomySection(&sb)
	return sb.String(), nil
}

func actionPrompt(in Input) (string, error) {
	var sb strings.Builder
	header(&sb, "Action Derivation", in)
	sb.WriteString("Derive concrete, owned tasks from the insights below. Write a JSON array to `actions.json`.\n\n")
	fencedJSON(&sb, "Insights", in.Insights)
	sb.WriteString(`## Output schema

` + "```json" + `
{
  "id": "<uuid>",
  "title": "...",
  "description": "...",
  "priority": "Critical|High|Medium|Low",
  "department": "...",
  "effort": "S|M|L",
  "impact": "...",
  "successMetrics": ["..."],
  "sourceInsight": "<insight id>",
  "status": "Not Started"
}
` + "```" + `

Every action must reference the insight it came from via sourceInsight.
`)
	return sb.String(), nil
}

func personaPrompt(in Input) (string, error) {
	var sb strings.Builder
	header(&sb, "Persona Synthesis", in)
	sb.WriteString("Synthesize or update shared customer personas from the insight corpus below. Merge with the existing personas rather than duplicating archetypes.\n\n")
	fencedJSON(&sb, "Insights", in.Insights)
	fencedJSON(&sb, "Existing personas", in.Personas)
	sb.WriteString(`## Output schema

Write the full persona array to ` + "`shared/personas.json`" + `:

` + "```json" + `
{
  "id": "<uuid>",
  "name": "...",
  "type": "...",
  "demographics": {"role": "...", "segment": "..."},
  "behaviors": ["..."],
  "goals": ["..."],
  "painPoints": ["..."],
  "supportingInsights": ["<insight id>"]
}
` + "```" + `
`)
	return sb.String(), nil
}

func competitivePrompt(in Input) (string, error) {
	var sb strings.Builder
	header(&sb, "Competitive Analysis", in)
	sb.WriteString("Summarize competitive positioning signals present in this project's insights. Note feature gaps, pricing complaints, and competitor mentions.\n\n")
	fencedJSON(&sb, "Insights", in.Insights)
	return sb.String(), nil
}
