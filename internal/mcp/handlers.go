package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	goerrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/ops"
	"github.com/hansvb/planboard/internal/plan"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	remote ops.RemoteSource
}

// NewHandlers creates a new Handlers instance. remote may be nil when no
// remote source is configured; merged views then cover local data only.
func NewHandlers(db *sql.DB, cfg *config.Config, remote ops.RemoteSource) *Handlers {
	return &Handlers{db: db, cfg: cfg, remote: remote}
}

// Request types for each tool

// ListRequest carries the shared list arguments.
type ListRequest struct {
	Sort     string `json:"sort,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Query    string `json:"query,omitempty"`
}

func (r ListRequest) query() ops.ListQuery {
	return ops.ListQuery{
		Sort:     r.Sort,
		Category: r.Category,
		Status:   r.Status,
		Query:    r.Query,
	}
}

// IdeaAddRequest represents the arguments for idea_add.
type IdeaAddRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Impact      int    `json:"impact"`
	Confidence  int    `json:"confidence"`
	Ease        int    `json:"ease"`
}

// IdeaStatusRequest represents the arguments for idea_status.
type IdeaStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// IdeaPromoteRequest represents the arguments for idea_promote.
type IdeaPromoteRequest struct {
	ID       string `json:"id"`
	Promoted *bool  `json:"promoted,omitempty"`
}

// DeleteRequest represents the arguments for the delete tools.
type DeleteRequest struct {
	ID string `json:"id"`
}

// FeatureAddRequest represents the arguments for feature_add.
type FeatureAddRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Impact      int     `json:"impact"`
	Confidence  int     `json:"confidence"`
	Ease        int     `json:"ease"`
	Complexity  int     `json:"complexity"`
	Urgency     float64 `json:"urgency,omitempty"`
}

// FeatureStatusRequest represents the arguments for feature_status.
type FeatureStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FeatureProgressRequest represents the arguments for feature_progress.
type FeatureProgressRequest struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

// ExperimentAddRequest represents the arguments for experiment_add.
type ExperimentAddRequest struct {
	Title        string `json:"title"`
	Hypothesis   string `json:"hypothesis,omitempty"`
	Type         string `json:"type"`
	Impact       int    `json:"impact"`
	Confidence   int    `json:"confidence"`
	Ease         int    `json:"ease"`
	DurationDays int    `json:"duration_days,omitempty"`
}

// ExperimentStatusRequest represents the arguments for experiment_status.
type ExperimentStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ExperimentResultRequest represents the arguments for experiment_result.
type ExperimentResultRequest struct {
	ID         string  `json:"id"`
	Lift       float64 `json:"lift"`
	SampleSize *int    `json:"sample_size,omitempty"`
}

// TokensLogRequest represents the arguments for tokens_log.
type TokensLogRequest struct {
	Date         string `json:"date,omitempty"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Tasks        string `json:"tasks,omitempty"`
}

// MarketingLogRequest represents the arguments for marketing_log.
type MarketingLogRequest struct {
	Date     string  `json:"date,omitempty"`
	Spend    float64 `json:"spend,omitempty"`
	Revenue  float64 `json:"revenue,omitempty"`
	Orders   int     `json:"orders,omitempty"`
	Sessions int     `json:"sessions,omitempty"`
	CTR      float64 `json:"ctr,omitempty"`
	CPA      float64 `json:"cpa,omitempty"`
}

// IntakeRequest represents the arguments for intake_classify and
// intake_message.
type IntakeRequest struct {
	Text string `json:"text"`
}

// Handler implementations

// HandleIdeaAdd handles the idea_add tool call.
func (h *Handlers) HandleIdeaAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IdeaAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	idea, err := ops.AddIdea(ctx, h.db, ops.AddIdeaInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    plan.IdeaCategory(input.Category),
		Impact:      input.Impact,
		Confidence:  input.Confidence,
		Ease:        input.Ease,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(idea)
}

// HandleIdeaList handles the idea_list tool call.
func (h *Handlers) HandleIdeaList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListIdeas(ctx, h.db, h.cfg, h.remote, input.query())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleIdeaStatus handles the idea_status tool call.
func (h *Handlers) HandleIdeaStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IdeaStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	idea, err := ops.SetIdeaStatus(ctx, h.db, h.remote, input.ID, plan.IdeaStatus(input.Status))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(idea)
}

// HandleIdeaPromote handles the idea_promote tool call.
func (h *Handlers) HandleIdeaPromote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IdeaPromoteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	promoted := true
	if input.Promoted != nil {
		promoted = *input.Promoted
	}

	idea, err := ops.PromoteIdea(ctx, h.db, h.remote, input.ID, promoted)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(idea)
}

// HandleIdeaDelete handles the idea_delete tool call.
func (h *Handlers) HandleIdeaDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteIdea(ctx, h.db, h.remote, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(deletedPayload(input.ID))
}

// HandleFeatureAdd handles the feature_add tool call.
func (h *Handlers) HandleFeatureAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FeatureAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	feature, err := ops.AddFeature(ctx, h.db, ops.AddFeatureInput{
		Title:       input.Title,
		Description: input.Description,
		Type:        plan.FeatureType(input.Type),
		Impact:      input.Impact,
		Confidence:  input.Confidence,
		Ease:        input.Ease,
		Complexity:  input.Complexity,
		Urgency:     input.Urgency,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(feature)
}

// HandleFeatureList handles the feature_list tool call.
func (h *Handlers) HandleFeatureList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListFeatures(ctx, h.db, h.cfg, input.query())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFeatureStatus handles the feature_status tool call.
func (h *Handlers) HandleFeatureStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FeatureStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	feature, err := ops.SetFeatureStatus(ctx, h.db, input.ID, plan.FeatureStatus(input.Status))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(feature)
}

// HandleFeatureProgress handles the feature_progress tool call.
func (h *Handlers) HandleFeatureProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FeatureProgressRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	feature, err := ops.SetFeatureProgress(ctx, h.db, input.ID, input.Progress)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(feature)
}

// HandleFeatureDelete handles the feature_delete tool call.
func (h *Handlers) HandleFeatureDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteFeature(ctx, h.db, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(deletedPayload(input.ID))
}

// HandleExperimentAdd handles the experiment_add tool call.
func (h *Handlers) HandleExperimentAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExperimentAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	experiment, err := ops.AddExperiment(ctx, h.db, ops.AddExperimentInput{
		Title:        input.Title,
		Hypothesis:   input.Hypothesis,
		Type:         plan.ExperimentType(input.Type),
		Impact:       input.Impact,
		Confidence:   input.Confidence,
		Ease:         input.Ease,
		DurationDays: input.DurationDays,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(experiment)
}

// HandleExperimentList handles the experiment_list tool call.
func (h *Handlers) HandleExperimentList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListExperiments(ctx, h.db, h.cfg, h.remote, input.query())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExperimentStatus handles the experiment_status tool call.
func (h *Handlers) HandleExperimentStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExperimentStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	experiment, err := ops.SetExperimentStatus(ctx, h.db, h.remote, input.ID, plan.ExperimentStatus(input.Status))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(experiment)
}

// HandleExperimentResult handles the experiment_result tool call.
func (h *Handlers) HandleExperimentResult(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExperimentResultRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	experiment, err := ops.RecordExperimentResult(ctx, h.db, h.remote, ops.RecordResultInput{
		ID:         input.ID,
		Lift:       input.Lift,
		SampleSize: input.SampleSize,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(experiment)
}

// HandleExperimentDelete handles the experiment_delete tool call.
func (h *Handlers) HandleExperimentDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteExperiment(ctx, h.db, h.remote, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(deletedPayload(input.ID))
}

// HandleTokensLog handles the tokens_log tool call.
func (h *Handlers) HandleTokensLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TokensLogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	session, err := ops.LogTokenSession(ctx, h.db, h.cfg, ops.LogSessionInput{
		Date:         input.Date,
		Model:        input.Model,
		InputTokens:  input.InputTokens,
		OutputTokens: input.OutputTokens,
		Tasks:        input.Tasks,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(session)
}

// HandleTokensList handles the tokens_list tool call.
func (h *Handlers) HandleTokensList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListTokenSessions(ctx, h.db, h.remote, input.query())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTokensDelete handles the tokens_delete tool call.
func (h *Handlers) HandleTokensDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteTokenSession(ctx, h.db, h.remote, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(deletedPayload(input.ID))
}

// HandleMarketingLog handles the marketing_log tool call.
func (h *Handlers) HandleMarketingLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MarketingLogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	day, err := ops.LogMarketingDay(ctx, h.db, ops.LogMarketingDayInput{
		Date:     input.Date,
		Spend:    input.Spend,
		Revenue:  input.Revenue,
		Orders:   input.Orders,
		Sessions: input.Sessions,
		CTR:      input.CTR,
		CPA:      input.CPA,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(day)
}

// HandleMarketingOverview handles the marketing_overview tool call.
func (h *Handlers) HandleMarketingOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.MarketingOverview(ctx, h.db, h.remote, input.query())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMarketingDelete handles the marketing_delete tool call.
func (h *Handlers) HandleMarketingDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteMarketingDay(ctx, h.db, h.remote, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(deletedPayload(input.ID))
}

// HandleIntakeClassify handles the intake_classify tool call.
func (h *Handlers) HandleIntakeClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IntakeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClassifyMessage(input.Text)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleIntakeMessage handles the intake_message tool call.
func (h *Handlers) HandleIntakeMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IntakeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.IntakeMessage(ctx, h.db, input.Text)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFeedbackReview handles the feedback_review tool call.
func (h *Handlers) HandleFeedbackReview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	drafts, err := ops.ReviewFeedback(ctx, h.remote)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"drafts": drafts})
}

// HandleBoardSummary handles the board_summary tool call.
func (h *Handlers) HandleBoardSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.BoardSummary(ctx, h.db, h.cfg, h.remote)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRemoteSync handles the remote_sync tool call.
func (h *Handlers) HandleRemoteSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Sync(ctx, h.remote))
}

// Result helpers

func deletedPayload(id string) map[string]any {
	return map[string]any{"deleted": true, "id": id}
}

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var boardErr *errors.BoardError
	if goerrors.As(err, &boardErr) {
		errorObj := map[string]any{
			"code":    boardErr.Code,
			"message": boardErr.Message,
			"status":  boardErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if boardErr.Code != errors.ErrInternal && boardErr.Details != nil {
			errorObj["details"] = boardErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
