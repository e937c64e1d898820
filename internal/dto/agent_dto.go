package dto

import "scad-studio-be/pkg/store"

type AgentStartRequest struct {
	Mode        string `json:"mode" validate:"required,oneof=review generate"`
	ScadFile    string `json:"scad_file,omitempty"`
	Description string `json:"description,omitempty"`
	OutputName  string `json:"output_name,omitempty"`

	// Optional per-session overrides of the configured defaults.
	Model         string `json:"model,omitempty"`
	TargetScore   int    `json:"target_score,omitempty" validate:"omitempty,min=1,max=10"`
	MaxIterations int    `json:"max_iterations,omitempty" validate:"omitempty,min=1,max=50"`
}

type AgentStartResponse struct {
	SessionId string `json:"session_id"`
	ScadFile  string `json:"scad_file"`
	Mode      string `json:"mode"`
}

type AgentEvaluateRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Feedback  string `json:"feedback,omitempty"`
}

type AgentEvaluateResponse struct {
	SessionId        string                  `json:"session_id"`
	Iteration        int                     `json:"iteration"`
	Score            int                     `json:"score"`
	Summary          string                  `json:"summary"`
	CriteriaScores   store.CriteriaScores    `json:"criteria_scores"`
	Issues           []string                `json:"issues"`
	HasSuggestedCode bool                    `json:"has_suggested_code"`
	PreviewBase64    string                  `json:"preview_base64"`
	Converged        bool                    `json:"converged"`
	ConvergeReason   string                  `json:"converge_reason,omitempty"`
	History          []store.IterationRecord `json:"history"`
}

type AgentApplyRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type AgentApplyResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CurrentCode string `json:"current_code,omitempty"`
}

type AgentStopRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type AgentStopResponse struct {
	Success bool                    `json:"success"`
	History []store.IterationRecord `json:"history"`
}
