package agent

import "scad-studio-be/pkg/store"

// Verdict is the convergence decision attached to an evaluate call.
type Verdict struct {
	Converged bool
	Reason    string
}

// CheckConvergence applies the stop rules after an evaluation, in priority
// order:
//
//  1. the model declared no further improvement possible
//  2. the target score is reached AND nothing is left to fix
//  3. the last three scores are non-increasing
//  4. the iteration budget is exhausted
//
// scores must include the just-recorded iteration.
func CheckConvergence(result *EvalResult, scores []int, targetScore, maxIterations int) Verdict {
	if result.StopReason == store.ConvergeNoImprovement {
		return Verdict{Converged: true, Reason: store.ConvergeNoImprovement}
	}

	if result.Score >= targetScore && result.SuggestedCode == "" {
		return Verdict{Converged: true, Reason: store.ConvergeTargetReached}
	}

	if n := len(scores); n >= 3 {
		if scores[n-1] <= scores[n-2] && scores[n-2] <= scores[n-3] {
			return Verdict{Converged: true, Reason: store.ConvergeStagnant}
		}
	}

	if len(scores) >= maxIterations {
		return Verdict{Converged: true, Reason: store.ConvergeMaxIterations}
	}

	return Verdict{}
}
