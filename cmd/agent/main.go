// Package main provides the design-agent CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"scad-studio-be/internal/config"
	"scad-studio-be/internal/pkg/logger"
	"scad-studio-be/internal/repository/memory"
	"scad-studio-be/internal/service"
	"scad-studio-be/pkg/llm/factory"
	"scad-studio-be/pkg/renderer"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "scad-agent",
		Short: "Iterative OpenSCAD design agent",
		Long: `scad-agent renders OpenSCAD designs, asks a vision model to score them,
and iterates on the code until the design converges.

Examples:
  scad-agent review designs/bracket.scad
  scad-agent review designs/bracket.scad --auto -t 9
  scad-agent generate "a parametric phone stand" -o phone_stand`,
		Version: version,
	}

	rootCmd.AddCommand(
		reviewCmd(),
		generateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAgentService wires the same stack the REST server uses, minus the
// transport layer.
func newAgentService(cfg *config.Config) service.IAgentService {
	scadRenderer := renderer.New(cfg.OpenSCAD.BinaryPath, cfg.OpenSCAD.Timeout)
	if _, err := scadRenderer.Version(context.Background()); err != nil {
		log.Fatalf("OpenSCAD not available: %v", err)
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.AnthropicURL,
		cfg.Ai.AnthropicKey,
	)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	sessionRepo := memory.NewSessionRepository(cfg.Agent.SessionTTL)
	cliLogger := logger.NewIsolatedLogger("logs/agent-cli.log")

	return service.NewAgentService(sessionRepo, scadRenderer, llmProvider, cfg, cliLogger)
}
