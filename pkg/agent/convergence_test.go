package agent

import (
	"testing"

	"scad-studio-be/pkg/store"
)

func TestCheckConvergence(t *testing.T) {
	tests := []struct {
		name          string
		result        *EvalResult
		scores        []int
		targetScore   int
		maxIterations int
		wantConverged bool
		wantReason    string
	}{
		{
			name:          "active below target",
			result:        &EvalResult{Score: 5, SuggestedCode: "cube(1);"},
			scores:        []int{5},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: false,
		},
		{
			name:          "target reached without suggestion",
			result:        &EvalResult{Score: 9},
			scores:        []int{6, 9},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: true,
			wantReason:    store.ConvergeTargetReached,
		},
		{
			name:          "target score but suggestion still pending",
			result:        &EvalResult{Score: 9, SuggestedCode: "cube(2);"},
			scores:        []int{6, 9},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: false,
		},
		{
			name:          "model declares no improvement",
			result:        &EvalResult{Score: 4, SuggestedCode: "cube(3);", StopReason: store.ConvergeNoImprovement},
			scores:        []int{4},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: true,
			wantReason:    store.ConvergeNoImprovement,
		},
		{
			name:          "no improvement outranks target reached",
			result:        &EvalResult{Score: 9, StopReason: store.ConvergeNoImprovement},
			scores:        []int{9},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: true,
			wantReason:    store.ConvergeNoImprovement,
		},
		{
			name:          "stagnant three flat scores",
			result:        &EvalResult{Score: 6, SuggestedCode: "cube(4);"},
			scores:        []int{4, 6, 6, 6},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: true,
			wantReason:    store.ConvergeStagnant,
		},
		{
			name:          "declining scores are stagnant",
			result:        &EvalResult{Score: 4, SuggestedCode: "cube(5);"},
			scores:        []int{6, 5, 4},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: true,
			wantReason:    store.ConvergeStagnant,
		},
		{
			name:          "rising scores are not stagnant",
			result:        &EvalResult{Score: 7, SuggestedCode: "cube(6);"},
			scores:        []int{5, 6, 7},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: false,
		},
		{
			name:          "two scores never stagnant",
			result:        &EvalResult{Score: 5, SuggestedCode: "cube(7);"},
			scores:        []int{5, 5},
			targetScore:   8,
			maxIterations: 8,
			wantConverged: false,
		},
		{
			name:          "iteration budget exhausted",
			result:        &EvalResult{Score: 7, SuggestedCode: "cube(8);"},
			scores:        []int{3, 5, 6, 7, 7},
			targetScore:   8,
			maxIterations: 5,
			wantConverged: true,
			wantReason:    store.ConvergeMaxIterations,
		},
		{
			name:          "budget exhausted with improving scores",
			result:        &EvalResult{Score: 7, SuggestedCode: "cube(9);"},
			scores:        []int{3, 5, 7},
			targetScore:   8,
			maxIterations: 3,
			wantConverged: true,
			wantReason:    store.ConvergeMaxIterations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckConvergence(tt.result, tt.scores, tt.targetScore, tt.maxIterations)
			if got.Converged != tt.wantConverged {
				t.Errorf("Converged = %v, want %v", got.Converged, tt.wantConverged)
			}
			if tt.wantConverged && got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
