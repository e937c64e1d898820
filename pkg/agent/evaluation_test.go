package agent

import (
	"errors"
	"testing"
)

func TestParseEvaluationJSONBlock(t *testing.T) {
	reply := "Here is my assessment.\n" +
		"```json\n" +
		`{
  "score": 7,
  "summary": "Recognizable bracket, mounting holes misplaced",
  "criteria_scores": {"recognizability": 8, "proportions": 7, "visual_quality": 6, "structural": 7, "code_quality": 8},
  "issues": ["holes off center", "wall too thin"],
  "suggested_code": "cube([10,10,2]);",
  "stop_reason": null
}` + "\n```\nLet me know.\n"

	result, err := ParseEvaluation(reply)
	if err != nil {
		t.Fatalf("ParseEvaluation returned error: %v", err)
	}
	if result.Score != 7 {
		t.Errorf("Score = %d, want 7", result.Score)
	}
	if result.Summary != "Recognizable bracket, mounting holes misplaced" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.CriteriaScores.Recognizability != 8 || result.CriteriaScores.CodeQuality != 8 {
		t.Errorf("CriteriaScores = %+v", result.CriteriaScores)
	}
	if len(result.Issues) != 2 {
		t.Errorf("Issues = %v, want 2 entries", result.Issues)
	}
	if result.SuggestedCode != "cube([10,10,2]);" {
		t.Errorf("SuggestedCode = %q", result.SuggestedCode)
	}
	if result.StopReason != "" {
		t.Errorf("StopReason = %q, want empty", result.StopReason)
	}
}

func TestParseEvaluationStopReason(t *testing.T) {
	reply := "```json\n" +
		`{"score": 6, "summary": "As good as it gets at this scale", "issues": [], "suggested_code": null, "stop_reason": "no_improvement"}` +
		"\n```"

	result, err := ParseEvaluation(reply)
	if err != nil {
		t.Fatalf("ParseEvaluation returned error: %v", err)
	}
	if result.StopReason != "no_improvement" {
		t.Errorf("StopReason = %q, want no_improvement", result.StopReason)
	}
	if result.SuggestedCode != "" {
		t.Errorf("SuggestedCode = %q, want empty", result.SuggestedCode)
	}
}

func TestParseEvaluationFallback(t *testing.T) {
	// Mangled fences: no ```json block, but the fields are present.
	reply := `The evaluation: "score": 5, "summary": "Blocky but recognizable". ` +
		"```openscad\ncylinder(h=20, r=5);\n```"

	result, err := ParseEvaluation(reply)
	if err != nil {
		t.Fatalf("ParseEvaluation returned error: %v", err)
	}
	if result.Score != 5 {
		t.Errorf("Score = %d, want 5", result.Score)
	}
	if result.Summary != "Blocky but recognizable" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.SuggestedCode != "cylinder(h=20, r=5);" {
		t.Errorf("SuggestedCode = %q", result.SuggestedCode)
	}
}

func TestParseEvaluationMalformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose only", "This design looks pretty good to me overall!"},
		{"empty", ""},
		{"json without score", "```json\n{\"summary\": \"nice\"}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvaluation(tt.reply)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "fenced block",
			text: "Here you go:\n```openscad\ncube(5);\n```\nDone.",
			want: "cube(5);",
		},
		{
			name: "no block",
			text: "I could not produce code for this.",
			want: "",
		},
		{
			name: "multiline",
			text: "```openscad\n$fn = 50;\nsphere(10);\n```",
			want: "$fn = 50;\nsphere(10);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCode(tt.text); got != tt.want {
				t.Errorf("ExtractCode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractGeneratedCodeFallsBackToWholeText(t *testing.T) {
	text := "cube([1,2,3]);"
	if got := ExtractGeneratedCode(text); got != text {
		t.Errorf("ExtractGeneratedCode = %q, want whole text", got)
	}
}
