package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/kvanderzwet/fieldwork/pkg/config"
)

func TestAvailable(t *testing.T) {
	if !Available(config.AgentConfig{Binary: "sh"}) {
		t.Error("sh not found on PATH")
	}
	if Available(config.AgentConfig{Binary: "definitely-not-a-real-binary"}) {
		t.Error("nonexistent binary reported available")
	}
}

func TestRunPropagatesExitFailure(t *testing.T) {
	cfg := config.AgentConfig{Binary: "sh", Args: []string{"-c", "exit 1", "--"}}
	if err := Run(context.Background(), cfg, "prompt.md", t.TempDir()); err == nil {
		t.Error("non-zero exit not surfaced")
	}
}

func TestRunSucceeds(t *testing.T) {
	cfg := config.AgentConfig{Binary: "true", Args: nil}
	if err := Run(context.Background(), cfg, "prompt.md", t.TempDir()); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestManualInstructionsNamesBinaryAndPrompt(t *testing.T) {
	cfg := config.AgentConfig{Binary: "agent"}
	out := ManualInstructions(cfg, ".fieldwork/projects/pilot/.prompts/extract.md")
	if !strings.Contains(out, `"agent"`) || !strings.Contains(out, "extract.md") {
		t.Errorf("instructions incomplete:\n%s", out)
	}
}
