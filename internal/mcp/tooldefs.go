package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Shared parameter vocabularies. Kept as plain string slices so the
// schema enums stay in one place per entity.
var (
	ideaCategories = []string{
		"Feature Improvement", "New Ad Creative", "New Strategy",
		"User Experience", "Technical Enhancement", "Marketing Campaign",
		"Product Extension", "Growth Initiative",
	}
	featureTypes = []string{
		"Core Feature", "Enhancement", "Integration", "Performance", "Security",
	}
	experimentTypes = []string{
		"A/B Test", "Marketing Copy", "Landing Page", "Ad Campaign", "Price Test",
	}
	ideaStatuses       = []string{"new", "in-progress", "completed"}
	featureStatuses    = []string{"new", "in-progress", "blocked", "completed"}
	experimentStatuses = []string{"draft", "queued", "running", "completed", "failed", "paused"}
	sortKeys           = []string{"score", "tokens", "date", "title", "category"}
)

// listOptions returns the shared list parameters: sort key plus the
// pipeline filter fields.
func listOptions(statuses []string) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("sort",
			mcp.Description("Sort key. score, tokens and date sort descending; title and category ascending."),
			mcp.Enum(sortKeys...),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring match over title and description."),
		),
	}
	if statuses != nil {
		opts = append(opts, mcp.WithString("status",
			mcp.Description("Only return entries with this status. Omit or pass 'all' for every status."),
			mcp.Enum(statuses...),
		))
	}
	return opts
}

var ideaAddToolDef = mcp.NewTool("idea_add",
	mcp.WithDescription("Score and store a new idea. The ICE total and token cost estimate are computed from the impact/confidence/ease scores and the category."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short idea title.")),
	mcp.WithString("description", mcp.Description("Longer free-text description. Markdown is rendered in the web view.")),
	mcp.WithString("category", mcp.Required(),
		mcp.Description("Idea category, drives the token cost base."),
		mcp.Enum(ideaCategories...),
	),
	mcp.WithNumber("impact", mcp.Required(), mcp.Description("Impact score, 1-10.")),
	mcp.WithNumber("confidence", mcp.Required(), mcp.Description("Confidence score, 1-10.")),
	mcp.WithNumber("ease", mcp.Required(), mcp.Description("Ease score, 1-10.")),
)

var ideaListToolDef = mcp.NewTool("idea_list",
	append([]mcp.ToolOption{
		mcp.WithDescription("List ideas merged with the remote snapshot (remote wins on id collision), filtered, sorted, and summarized."),
		mcp.WithString("category", mcp.Description("Only return ideas in this category."), mcp.Enum(ideaCategories...)),
	}, listOptions(ideaStatuses)...)...,
)

var ideaStatusToolDef = mcp.NewTool("idea_status",
	mcp.WithDescription("Update the status of a local idea. Remote-sourced ideas are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id.")),
	mcp.WithString("status", mcp.Required(), mcp.Enum(ideaStatuses...)),
)

var ideaPromoteToolDef = mcp.NewTool("idea_promote",
	mcp.WithDescription("Toggle the promoted-to-experiment flag on a local idea."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id.")),
	mcp.WithBoolean("promoted", mcp.Description("Target flag value. Defaults to true.")),
)

var ideaDeleteToolDef = mcp.NewTool("idea_delete",
	mcp.WithDescription("Delete a local idea. Remote-sourced ideas are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id.")),
)

var featureAddToolDef = mcp.NewTool("feature_add",
	mcp.WithDescription("Score and store a new feature. Priority blends the ICE total with complexity and urgency; the token cost estimate comes from the type and complexity."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short feature title.")),
	mcp.WithString("description", mcp.Description("Longer free-text description.")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Feature type, drives the token cost base."),
		mcp.Enum(featureTypes...),
	),
	mcp.WithNumber("impact", mcp.Required(), mcp.Description("Impact score, 1-10.")),
	mcp.WithNumber("confidence", mcp.Required(), mcp.Description("Confidence score, 1-10.")),
	mcp.WithNumber("ease", mcp.Required(), mcp.Description("Ease score, 1-10.")),
	mcp.WithNumber("complexity", mcp.Required(), mcp.Description("Complexity score, 1-10.")),
	mcp.WithNumber("urgency", mcp.Description("Urgency score, 0-10. Defaults to 0.")),
)

var featureListToolDef = mcp.NewTool("feature_list",
	append([]mcp.ToolOption{
		mcp.WithDescription("List the local feature queue, filtered, sorted, and summarized."),
		mcp.WithString("category", mcp.Description("Only return features of this type."), mcp.Enum(featureTypes...)),
	}, listOptions(featureStatuses)...)...,
)

var featureStatusToolDef = mcp.NewTool("feature_status",
	mcp.WithDescription("Update the status of a feature."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Feature id.")),
	mcp.WithString("status", mcp.Required(), mcp.Enum(featureStatuses...)),
)

var featureProgressToolDef = mcp.NewTool("feature_progress",
	mcp.WithDescription("Update the completion percentage of a feature."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Feature id.")),
	mcp.WithNumber("progress", mcp.Required(), mcp.Description("Completion percentage, 0-100.")),
)

var featureDeleteToolDef = mcp.NewTool("feature_delete",
	mcp.WithDescription("Delete a feature."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Feature id.")),
)

var experimentAddToolDef = mcp.NewTool("experiment_add",
	mcp.WithDescription("Score and store a new experiment. The token cost estimate scales with duration relative to a weekly cycle."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short experiment title.")),
	mcp.WithString("hypothesis", mcp.Description("What the experiment is expected to show.")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Experiment type, drives the token cost base."),
		mcp.Enum(experimentTypes...),
	),
	mcp.WithNumber("impact", mcp.Required(), mcp.Description("Impact score, 1-10.")),
	mcp.WithNumber("confidence", mcp.Required(), mcp.Description("Confidence score, 1-10.")),
	mcp.WithNumber("ease", mcp.Required(), mcp.Description("Ease score, 1-10.")),
	mcp.WithNumber("duration_days", mcp.Description("Planned run length in days. Defaults to 7.")),
)

var experimentListToolDef = mcp.NewTool("experiment_list",
	append([]mcp.ToolOption{
		mcp.WithDescription("List experiments merged with the remote snapshot (remote wins on id collision), filtered, sorted, and summarized."),
		mcp.WithString("category", mcp.Description("Only return experiments of this type."), mcp.Enum(experimentTypes...)),
	}, listOptions(experimentStatuses)...)...,
)

var experimentStatusToolDef = mcp.NewTool("experiment_status",
	mcp.WithDescription("Update the status of a local experiment. Remote-sourced experiments are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Experiment id.")),
	mcp.WithString("status", mcp.Required(), mcp.Enum(experimentStatuses...)),
)

var experimentResultToolDef = mcp.NewTool("experiment_result",
	mcp.WithDescription("Record the measured lift of an experiment and mark it completed."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Experiment id.")),
	mcp.WithNumber("lift", mcp.Required(), mcp.Description("Measured lift in percent. Negative values record a loss.")),
	mcp.WithNumber("sample_size", mcp.Description("Number of subjects in the measurement, if known.")),
)

var experimentDeleteToolDef = mcp.NewTool("experiment_delete",
	mcp.WithDescription("Delete a local experiment. Remote-sourced experiments are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Experiment id.")),
)

var tokensLogToolDef = mcp.NewTool("tokens_log",
	mcp.WithDescription("Log one AI work session. Cost and the token total are derived from the configured per-1K rates, never taken from the caller."),
	mcp.WithString("date", mcp.Description("Session date, YYYY-MM-DD. Defaults to today.")),
	mcp.WithString("model", mcp.Required(), mcp.Description("Model identifier, e.g. claude-sonnet-4-5.")),
	mcp.WithNumber("input_tokens", mcp.Required(), mcp.Description("Input tokens consumed.")),
	mcp.WithNumber("output_tokens", mcp.Required(), mcp.Description("Output tokens produced.")),
	mcp.WithString("tasks", mcp.Description("What the session worked on.")),
)

var tokensListToolDef = mcp.NewTool("tokens_list",
	append([]mcp.ToolOption{
		mcp.WithDescription("List token sessions merged with the remote snapshot, with input/output/cost totals over the returned rows."),
	}, listOptions(nil)...)...,
)

var tokensDeleteToolDef = mcp.NewTool("tokens_delete",
	mcp.WithDescription("Delete a local token session. Remote-sourced sessions are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session id.")),
)

var marketingLogToolDef = mcp.NewTool("marketing_log",
	mcp.WithDescription("Log one day of marketing KPIs."),
	mcp.WithString("date", mcp.Description("KPI date, YYYY-MM-DD. Defaults to today.")),
	mcp.WithNumber("spend", mcp.Description("Ad spend for the day.")),
	mcp.WithNumber("revenue", mcp.Description("Attributed revenue for the day.")),
	mcp.WithNumber("orders", mcp.Description("Order count.")),
	mcp.WithNumber("sessions", mcp.Description("Site session count.")),
	mcp.WithNumber("ctr", mcp.Description("Click-through rate in percent.")),
	mcp.WithNumber("cpa", mcp.Description("Cost per acquisition.")),
)

var marketingOverviewToolDef = mcp.NewTool("marketing_overview",
	append([]mcp.ToolOption{
		mcp.WithDescription("The marketing dashboard: the merged KPI log with spend/revenue/ROAS totals, plus the remote summary block and notes."),
	}, listOptions(nil)...)...,
)

var marketingDeleteToolDef = mcp.NewTool("marketing_delete",
	mcp.WithDescription("Delete a local KPI row. Remote-sourced rows are read-only."),
	mcp.WithString("id", mcp.Required(), mcp.Description("KPI row id.")),
)

var intakeClassifyToolDef = mcp.NewTool("intake_classify",
	mcp.WithDescription("Classify a free-text message as a feature or experiment and return the draft entity without persisting anything."),
	mcp.WithString("text", mcp.Required(), mcp.Description("The message to classify.")),
)

var intakeMessageToolDef = mcp.NewTool("intake_message",
	mcp.WithDescription("Classify a free-text message and persist the resulting draft as a feature or experiment."),
	mcp.WithString("text", mcp.Required(), mcp.Description("The message to intake.")),
)

var feedbackReviewToolDef = mcp.NewTool("feedback_review",
	mcp.WithDescription("Classify every note in the remote feedback document into feature/experiment drafts. Nothing is persisted; accept a draft with intake_message."),
)

var boardSummaryToolDef = mcp.NewTool("board_summary",
	mcp.WithDescription("The dashboard header: one summary block per board over the merged local+remote view, plus token totals."),
)

var remoteSyncToolDef = mcp.NewTool("remote_sync",
	mcp.WithDescription("Refresh the remote snapshot immediately, outside the polling schedule, and report the refreshed counts."),
)
