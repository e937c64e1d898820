package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/service"
	"scad-studio-be/pkg/store"
)

type loopOptions struct {
	maxIterations int
	targetScore   int
	model         string
	auto          bool
	dryRun        bool
}

func (o *loopOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.maxIterations, "max-iterations", "n", 0, "iteration cap (0 uses the configured default)")
	cmd.Flags().IntVarP(&o.targetScore, "target-score", "t", 0, "score at which the loop stops (0 uses the configured default)")
	cmd.Flags().StringVarP(&o.model, "model", "m", "", "override the evaluation model")
	cmd.Flags().BoolVar(&o.auto, "auto", false, "apply every suggestion without asking")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "evaluate only, never write suggested code")
}

var (
	scoreGood = color.New(color.FgGreen, color.Bold)
	scoreMid  = color.New(color.FgYellow, color.Bold)
	scoreBad  = color.New(color.FgRed, color.Bold)
	heading   = color.New(color.FgCyan, color.Bold)
	dim       = color.New(color.Faint)
)

// runLoop drives evaluate / apply rounds until the session converges or the
// user quits. It always stops the session before returning.
func runLoop(ctx context.Context, svc service.IAgentService, sessionID string, opts loopOptions) error {
	reader := bufio.NewReader(os.Stdin)
	feedback := ""

	for {
		fmt.Println()
		dim.Println("Rendering and evaluating...")

		resp, err := svc.Evaluate(ctx, &dto.AgentEvaluateRequest{
			SessionId: sessionID,
			Feedback:  feedback,
		})
		feedback = ""
		if err != nil {
			stopAndSummarize(ctx, svc, sessionID)
			return err
		}

		printEvaluation(resp)

		if resp.HasSuggestedCode && !opts.dryRun {
			switch {
			case opts.auto:
				if err := applySuggestion(ctx, svc, sessionID); err != nil {
					color.Red("Apply failed: %v", err)
				}
			case resp.Converged:
				// Converged with a final suggestion still pending: let the
				// user decide before the summary.
				fallthrough
			default:
				action, fb := promptAction(reader)
				switch action {
				case "a":
					if err := applySuggestion(ctx, svc, sessionID); err != nil {
						color.Red("Apply failed: %v", err)
					}
				case "f":
					feedback = fb
				case "q":
					return stopAndSummarize(ctx, svc, sessionID)
				}
			}
		}

		if resp.Converged {
			heading.Printf("\nConverged: %s\n", describeReason(resp.ConvergeReason))
			return stopAndSummarize(ctx, svc, sessionID)
		}
	}
}

func applySuggestion(ctx context.Context, svc service.IAgentService, sessionID string) error {
	res, err := svc.Apply(ctx, sessionID)
	if err != nil {
		return err
	}
	color.Green("%s", res.Message)
	return nil
}

func printEvaluation(resp *dto.AgentEvaluateResponse) {
	heading.Printf("Iteration %d\n", resp.Iteration)

	scoreColor(resp.Score).Printf("Score: %d/10\n", resp.Score)
	cs := resp.CriteriaScores
	dim.Printf("  recognizability %d  proportions %d  visual %d  structural %d  code %d\n",
		cs.Recognizability, cs.Proportions, cs.VisualQuality, cs.Structural, cs.CodeQuality)

	fmt.Println(resp.Summary)
	for _, issue := range resp.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	if resp.HasSuggestedCode {
		dim.Println("The model suggested revised code.")
	}
}

func promptAction(reader *bufio.Reader) (action, feedback string) {
	for {
		fmt.Print("[a]pply suggestion, [s]kip, give [f]eedback, [q]uit? ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "q", ""
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a":
			return "a", ""
		case "s", "":
			return "s", ""
		case "f":
			return "f", readFeedback(reader)
		case "q":
			return "q", ""
		}
	}
}

func readFeedback(reader *bufio.Reader) string {
	fmt.Println("Enter feedback (finish with an empty line):")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func stopAndSummarize(ctx context.Context, svc service.IAgentService, sessionID string) error {
	res, err := svc.Stop(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(res.History) == 0 {
		return nil
	}

	heading.Println("\nSession summary")
	parts := make([]string, 0, len(res.History))
	for _, rec := range res.History {
		parts = append(parts, fmt.Sprintf("%d", rec.Score))
	}
	fmt.Printf("Score progression: %s\n", strings.Join(parts, " -> "))

	last := res.History[len(res.History)-1]
	scoreColor(last.Score).Printf("Final score: %d/10 after %d iteration(s)\n", last.Score, last.Iteration)
	return nil
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 8:
		return scoreGood
	case score >= 5:
		return scoreMid
	default:
		return scoreBad
	}
}

func describeReason(reason string) string {
	switch reason {
	case store.ConvergeTargetReached:
		return "target score reached"
	case store.ConvergeNoImprovement:
		return "the evaluator sees no further improvement"
	case store.ConvergeStagnant:
		return "score has stopped improving"
	case store.ConvergeMaxIterations:
		return "iteration cap reached"
	default:
		return reason
	}
}
