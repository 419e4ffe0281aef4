// Package agent spawns the external AI agent process that consumes
// generated prompt files. The agent is opaque to fieldwork: it reads the
// prompt, writes result files into the project directory, and exits.
package agent

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/debug"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
)

// Available reports whether the configured agent binary is on PATH.
func Available(cfg config.AgentConfig) bool {
	_, err := exec.LookPath(cfg.Binary)
	return err == nil
}

// Run invokes the agent on a prompt file with stdio inherited, blocking
// until it exits. dir becomes the agent's working directory so its output
// files land inside the project. There is no timeout beyond ctx; a non-zero
// exit is returned as the error.
func Run(ctx context.Context, cfg config.AgentConfig, promptPath, dir string) error {
	args := append(append([]string{}, cfg.Args...), promptPath)
	debug.Log("agent: exec %s %v (dir=%s)", cfg.Binary, args, dir)

	cmd := exec.CommandContext(ctx, cfg.Binary, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	stop := metrics.Timer(metrics.AgentRun)
	err := cmd.Run()
	stop()
	debug.Log("agent: finished in %s (err=%v)", time.Since(start).Round(time.Second), err)
	if err != nil {
		return fmt.Errorf("agent run: %w", err)
	}
	return nil
}

// ManualInstructions returns the fallback text printed when the agent
// binary is absent: the command degrades to telling the user what to run by
// hand instead of failing.
func ManualInstructions(cfg config.AgentConfig, promptPath string) string {
	return fmt.Sprintf(
		"Agent binary %q not found on PATH.\nRun it manually against the generated prompt:\n\n    %s run %s\n",
		cfg.Binary, cfg.Binary, promptPath)
}
