package store

import (
	"sync"
	"time"

	"scad-studio-be/pkg/llm"
)

// Session modes
const (
	ModeReview   = "review"
	ModeGenerate = "generate"
)

// Convergence reasons, in rule-priority order.
const (
	ConvergeNoImprovement = "no_improvement"
	ConvergeTargetReached = "target_reached"
	ConvergeStagnant      = "stagnant"
	ConvergeMaxIterations = "max_iterations"
)

// CriteriaScores holds the per-criterion evaluation scores (0-10 each).
type CriteriaScores struct {
	Recognizability int `json:"recognizability"`
	Proportions     int `json:"proportions"`
	VisualQuality   int `json:"visual_quality"`
	Structural      int `json:"structural"`
	CodeQuality     int `json:"code_quality"`
}

// IterationRecord is one immutable entry in the session history.
type IterationRecord struct {
	Iteration        int            `json:"iteration"`
	Score            int            `json:"score"`
	CriteriaScores   CriteriaScores `json:"criteria_scores"`
	Summary          string         `json:"summary"`
	Issues           []string       `json:"issues"`
	HasSuggestedCode bool           `json:"has_suggested_code"`
	StopReason       string         `json:"stop_reason,omitempty"`
}

// Session is one design's in-progress improvement conversation. It lives only
// in the in-memory session table; the .scad file on disk is the sole durable
// state. At most one pending suggestion exists at a time: it is cleared when
// applied and replaced by each new evaluation.
type Session struct {
	ID          string `json:"id"`
	ScadPath    string `json:"scad_path"`
	Mode        string `json:"mode"` // "review" | "generate"
	Description string `json:"description"`

	CurrentCode string `json:"current_code"`
	PendingCode string `json:"pending_code,omitempty"`

	Turns   []llm.Message     `json:"-"`
	History []IterationRecord `json:"history"`

	Model         string `json:"model"`
	TargetScore   int    `json:"target_score"`
	MaxIterations int    `json:"max_iterations"`

	Converged      bool   `json:"converged"`
	ConvergeReason string `json:"converge_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Serializes operations on this session; concurrent evaluate calls on the
	// same session are not allowed.
	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Scores returns the overall score of every recorded iteration in order.
func (s *Session) Scores() []int {
	scores := make([]int, len(s.History))
	for i, rec := range s.History {
		scores[i] = rec.Score
	}
	return scores
}
