package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"scad-studio-be/internal/config"
	"scad-studio-be/internal/constant"
	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/pkg/logger"
	"scad-studio-be/internal/pkg/serverutils"
	"scad-studio-be/internal/repository/memory"
	"scad-studio-be/pkg/agent"
	"scad-studio-be/pkg/llm"
	"scad-studio-be/pkg/renderer"
	"scad-studio-be/pkg/store"
)

const (
	previewWidth  = 1024
	previewHeight = 768
)

// RenderInvoker is the slice of the renderer the agent loop needs. Narrowed
// so tests can substitute a fake without an OpenSCAD install.
type RenderInvoker interface {
	RenderPNG(ctx context.Context, scadPath string, width, height int, overrides renderer.Overrides) ([]byte, error)
	Validate(ctx context.Context, scadPath string) (*renderer.ValidationResult, error)
}

// IAgentService is the evaluation session controller: it owns one design's
// render -> evaluate -> apply lifecycle until a convergence rule fires.
type IAgentService interface {
	Start(ctx context.Context, req *dto.AgentStartRequest) (*dto.AgentStartResponse, error)
	Evaluate(ctx context.Context, req *dto.AgentEvaluateRequest) (*dto.AgentEvaluateResponse, error)
	Apply(ctx context.Context, sessionID string) (*dto.AgentApplyResponse, error)
	Stop(ctx context.Context, sessionID string) (*dto.AgentStopResponse, error)
}

type agentService struct {
	sessionRepo *memory.SessionRepository
	invoker     RenderInvoker
	llmProvider llm.Provider
	retryPolicy llm.RetryPolicy
	cfg         *config.Config
	logger      logger.ILogger
}

func NewAgentService(
	sessionRepo *memory.SessionRepository,
	invoker RenderInvoker,
	llmProvider llm.Provider,
	cfg *config.Config,
	sysLogger logger.ILogger,
) IAgentService {
	return &agentService{
		sessionRepo: sessionRepo,
		invoker:     invoker,
		llmProvider: llmProvider,
		retryPolicy: llm.DefaultRetryPolicy(),
		cfg:         cfg,
		logger:      sysLogger,
	}
}

// Start creates a session in review mode (existing file) or generate mode
// (model-produced initial code, validated and written to the data dir).
func (s *agentService) Start(ctx context.Context, req *dto.AgentStartRequest) (*dto.AgentStartResponse, error) {
	targetScore := req.TargetScore
	if targetScore == 0 {
		targetScore = s.cfg.Agent.TargetScore
	}
	maxIterations := req.MaxIterations
	if maxIterations == 0 {
		maxIterations = s.cfg.Agent.MaxIterations
	}
	model := req.Model
	if model == "" {
		model = s.cfg.Ai.LLMModel
	}

	var scadPath, code, description string

	switch req.Mode {
	case store.ModeGenerate:
		if strings.TrimSpace(req.Description) == "" {
			return nil, serverutils.InvalidInput("description required for generate mode")
		}
		name := req.OutputName
		if name == "" {
			name = agent.Slugify(req.Description) + ".scad"
		}
		scadPath = filepath.Join(s.cfg.App.DataDir, name)

		prompt := "Create an OpenSCAD design for: " + req.Description
		reply, err := llm.ChatWithRetry(ctx, s.llmProvider, s.retryPolicy,
			[]llm.Message{llm.UserText(prompt)},
			llm.WithSystem(constant.GenerateSystemPromptV1),
			llm.WithModel(model),
		)
		if err != nil {
			return nil, serverutils.ModelFatal("initial code generation failed", err)
		}

		code = agent.ExtractGeneratedCode(reply)
		if err := s.commitCode(ctx, scadPath, code); err != nil {
			return nil, err
		}
		description = req.Description

	case store.ModeReview:
		scadPath = req.ScadFile
		data, err := os.ReadFile(scadPath)
		if err != nil {
			return nil, serverutils.NotFound("file not found: %s", scadPath)
		}
		code = string(data)
		description = "Review of " + filepath.Base(scadPath)

	default:
		return nil, serverutils.InvalidInput("unknown mode %q", req.Mode)
	}

	session := &store.Session{
		ID:            uuid.NewString(),
		ScadPath:      scadPath,
		Mode:          req.Mode,
		Description:   description,
		CurrentCode:   code,
		Model:         model,
		TargetScore:   targetScore,
		MaxIterations: maxIterations,
		CreatedAt:     time.Now(),
	}
	s.sessionRepo.Save(session)

	s.logger.Info("Agent", "Session started", map[string]interface{}{
		"session_id": session.ID,
		"mode":       req.Mode,
		"scad_file":  scadPath,
	})

	return &dto.AgentStartResponse{
		SessionId: session.ID,
		ScadFile:  scadPath,
		Mode:      req.Mode,
	}, nil
}

// Evaluate runs one render -> model-review cycle. On any failure the session
// is left exactly as it was after the last successful iteration: no turn is
// appended and no history entry is recorded for a failed call.
func (s *agentService) Evaluate(ctx context.Context, req *dto.AgentEvaluateRequest) (*dto.AgentEvaluateResponse, error) {
	session, found := s.sessionRepo.Get(req.SessionId)
	if !found {
		return nil, serverutils.NotFound("session not found: %s", req.SessionId)
	}

	session.Lock()
	defer session.Unlock()

	if session.Converged && !s.cfg.Agent.AllowPostConverge {
		return nil, serverutils.InvalidState("session already converged (%s)", session.ConvergeReason)
	}

	iteration := len(session.History) + 1
	if iteration > session.MaxIterations {
		return nil, serverutils.InvalidState("max iterations reached (%d)", session.MaxIterations)
	}

	// Step 1: render. Failure surfaces as a failed iteration the caller may
	// simply retry; the session stays untouched.
	png, err := s.invoker.RenderPNG(ctx, session.ScadPath, previewWidth, previewHeight, renderer.PresetEval())
	if err != nil {
		return nil, mapRenderError(err)
	}

	// Step 2: build this iteration's user turn
	text := s.initialUserText(session, iteration)
	if req.Feedback != "" {
		text += "\n\nUser feedback: " + req.Feedback
	}

	userTurn := llm.Message{
		Role: llm.RoleUser,
		Content: []llm.Content{
			llm.TextContent(text),
			llm.ImageContent(png),
			llm.TextContent("Current .scad code:\n```openscad\n" + session.CurrentCode + "\n```"),
		},
	}

	// The turn list is only committed to the session after the model call and
	// parse both succeed.
	turns := make([]llm.Message, len(session.Turns), len(session.Turns)+2)
	copy(turns, session.Turns)
	turns = append(turns, userTurn)

	// Step 3: model call, bounded retry on transient failures
	started := time.Now()
	reply, err := llm.ChatWithRetry(ctx, s.llmProvider, s.retryPolicy, turns,
		llm.WithSystem(constant.EvaluationSystemPromptV1),
		llm.WithModel(session.Model),
	)
	if err != nil {
		return nil, serverutils.ModelFatal("model evaluation failed", err)
	}

	// Step 4: parse the structured evaluation
	result, err := agent.ParseEvaluation(reply)
	if err != nil {
		return nil, serverutils.ModelFatal("model returned a malformed evaluation", err)
	}

	// Step 5: commit the turn, the record, and the pending suggestion
	session.Turns = append(turns, llm.AssistantText(reply))

	record := store.IterationRecord{
		Iteration:        iteration,
		Score:            result.Score,
		CriteriaScores:   result.CriteriaScores,
		Summary:          result.Summary,
		Issues:           result.Issues,
		HasSuggestedCode: result.SuggestedCode != "",
		StopReason:       result.StopReason,
	}
	session.History = append(session.History, record)
	session.PendingCode = result.SuggestedCode

	// Step 6: convergence verdict
	verdict := agent.CheckConvergence(result, session.Scores(), session.TargetScore, session.MaxIterations)
	session.Converged = verdict.Converged
	session.ConvergeReason = verdict.Reason

	s.logger.Info("Agent", "Iteration evaluated", map[string]interface{}{
		"session_id": session.ID,
		"iteration":  iteration,
		"score":      result.Score,
		"converged":  verdict.Converged,
		"reason":     verdict.Reason,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})

	history := make([]store.IterationRecord, len(session.History))
	copy(history, session.History)

	return &dto.AgentEvaluateResponse{
		SessionId:        session.ID,
		Iteration:        iteration,
		Score:            result.Score,
		Summary:          result.Summary,
		CriteriaScores:   result.CriteriaScores,
		Issues:           result.Issues,
		HasSuggestedCode: result.SuggestedCode != "",
		PreviewBase64:    base64.StdEncoding.EncodeToString(png),
		Converged:        verdict.Converged,
		ConvergeReason:   verdict.Reason,
		History:          history,
	}, nil
}

// Apply validates and commits the pending suggestion. On validation failure
// the pending text is discarded and the current text stands.
func (s *agentService) Apply(ctx context.Context, sessionID string) (*dto.AgentApplyResponse, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, serverutils.NotFound("session not found: %s", sessionID)
	}

	session.Lock()
	defer session.Unlock()

	if session.PendingCode == "" {
		return nil, serverutils.InvalidState("no suggested code to apply")
	}

	pending := session.PendingCode
	if err := s.commitCode(ctx, session.ScadPath, pending); err != nil {
		var appErr *serverutils.AppError
		if errors.As(err, &appErr) && appErr.Kind == serverutils.KindValidationFailed {
			session.PendingCode = ""
		}
		return nil, err
	}

	session.CurrentCode = pending
	session.PendingCode = ""

	s.logger.Info("Agent", "Suggestion applied", map[string]interface{}{
		"session_id": session.ID,
		"scad_file":  session.ScadPath,
	})

	return &dto.AgentApplyResponse{
		Success:     true,
		Message:     "Code applied and validated",
		CurrentCode: session.CurrentCode,
	}, nil
}

// Stop removes the session and returns its final history. Stopping an
// unknown session reports NotFound but never panics.
func (s *agentService) Stop(ctx context.Context, sessionID string) (*dto.AgentStopResponse, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, serverutils.NotFound("session not found: %s", sessionID)
	}

	session.Lock()
	history := make([]store.IterationRecord, len(session.History))
	copy(history, session.History)
	session.Unlock()

	s.sessionRepo.Delete(sessionID)

	s.logger.Info("Agent", "Session stopped", map[string]interface{}{
		"session_id": sessionID,
		"iterations": len(history),
	})

	return &dto.AgentStopResponse{Success: true, History: history}, nil
}

// commitCode writes code to a temp sibling, validates it with the renderer,
// and renames it over scadPath only when valid. Validation failure discards
// the temp file and leaves the target untouched.
func (s *agentService) commitCode(ctx context.Context, scadPath, code string) error {
	if err := os.MkdirAll(filepath.Dir(scadPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpPath := scadPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(code), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	result, err := s.invoker.Validate(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return mapRenderError(err)
	}
	if !result.Valid {
		os.Remove(tmpPath)
		return serverutils.ValidationFailed(
			"code failed validation: "+strings.Join(result.Errors, "; "), nil)
	}

	if err := os.Rename(tmpPath, scadPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("commit file: %w", err)
	}
	return nil
}

func (s *agentService) initialUserText(session *store.Session, iteration int) string {
	if iteration > 1 {
		return fmt.Sprintf("Iteration %d: Here is the updated render and code after your previous suggestions.", iteration)
	}
	if session.Mode == store.ModeGenerate {
		return fmt.Sprintf(constant.GenerateInitialUserTextV1, session.Description)
	}
	return constant.ReviewInitialUserTextV1
}

func mapRenderError(err error) error {
	switch {
	case errors.Is(err, renderer.ErrFileNotFound), errors.Is(err, renderer.ErrBinaryNotFound):
		return serverutils.NotFound("%v", err)
	case errors.Is(err, renderer.ErrTimeout):
		return serverutils.Timeout("render timed out", err)
	default:
		return serverutils.RenderFailed("render failed", err)
	}
}
