package agent

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"

	"scad-studio-be/pkg/store"
)

// ErrMalformedResponse means the model reply carried no parseable evaluation
// structure. The caller must treat the evaluate call as failed; no partial
// history entry is recorded.
var ErrMalformedResponse = errors.New("model response contained no parseable evaluation")

// EvalResult is the structured verdict extracted from one model reply.
type EvalResult struct {
	Score          int                  `json:"score"`
	Summary        string               `json:"summary"`
	CriteriaScores store.CriteriaScores `json:"criteria_scores"`
	Issues         []string             `json:"issues"`
	SuggestedCode  string               `json:"suggested_code"`
	StopReason     string               `json:"stop_reason"`
	RawText        string               `json:"-"`
}

// rawEvaluation mirrors the JSON block the evaluation prompt demands.
type rawEvaluation struct {
	Score          json.Number          `json:"score"`
	Summary        string               `json:"summary"`
	CriteriaScores store.CriteriaScores `json:"criteria_scores"`
	Issues         []string             `json:"issues"`
	SuggestedCode  *string              `json:"suggested_code"`
	StopReason     *string              `json:"stop_reason"`
}

var (
	jsonBlockRe  = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")
	scadBlockRe  = regexp.MustCompile("(?s)```openscad\\s*\\n(.*?)\\n```")
	scoreFieldRe = regexp.MustCompile(`"score"\s*:\s*(\d+)`)
	summaryRe    = regexp.MustCompile(`"summary"\s*:\s*"([^"]*)"`)
	issueHintRe  = regexp.MustCompile(`(?i)"([^"]*(?:issue|problem|missing|should|needs)[^"]*)"`)
)

// ParseEvaluation extracts the structured evaluation from a model reply.
// The primary path is the fenced ```json block the prompt requires; a reply
// whose fences got mangled falls back to field-level extraction, but a reply
// carrying no score at all is malformed and returns ErrMalformedResponse.
func ParseEvaluation(responseText string) (*EvalResult, error) {
	if m := jsonBlockRe.FindStringSubmatch(responseText); m != nil {
		var raw rawEvaluation
		if err := json.Unmarshal([]byte(m[1]), &raw); err == nil {
			score, scoreErr := raw.Score.Int64()
			if scoreErr == nil {
				result := &EvalResult{
					Score:          int(score),
					Summary:        raw.Summary,
					CriteriaScores: raw.CriteriaScores,
					Issues:         raw.Issues,
					RawText:        responseText,
				}
				if raw.SuggestedCode != nil {
					result.SuggestedCode = *raw.SuggestedCode
				}
				if raw.StopReason != nil {
					result.StopReason = *raw.StopReason
				}
				if result.Issues == nil {
					result.Issues = []string{}
				}
				return result, nil
			}
		}
	}

	// Fallback: field-level extraction for replies with broken fences
	scoreMatch := scoreFieldRe.FindStringSubmatch(responseText)
	if scoreMatch == nil {
		return nil, ErrMalformedResponse
	}
	score, _ := strconv.Atoi(scoreMatch[1])

	result := &EvalResult{
		Score:   score,
		Summary: "Could not fully parse evaluation",
		Issues:  []string{},
		RawText: responseText,
	}
	if m := summaryRe.FindStringSubmatch(responseText); m != nil {
		result.Summary = m[1]
	}
	for i, m := range issueHintRe.FindAllStringSubmatch(responseText, -1) {
		if i >= 5 {
			break
		}
		result.Issues = append(result.Issues, m[1])
	}
	result.SuggestedCode = ExtractCode(responseText)
	return result, nil
}

// ExtractCode pulls the contents of a fenced ```openscad block, or returns ""
// when the text has none.
func ExtractCode(text string) string {
	if m := scadBlockRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractGeneratedCode returns the fenced code of a generation reply, falling
// back to the whole reply when the model skipped the fences.
func ExtractGeneratedCode(text string) string {
	if code := ExtractCode(text); code != "" {
		return code
	}
	return text
}
