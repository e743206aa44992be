package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"idea_add": {
		def:     ideaAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIdeaAdd },
	},
	"idea_list": {
		def:     ideaListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIdeaList },
	},
	"idea_status": {
		def:     ideaStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIdeaStatus },
	},
	"idea_promote": {
		def:     ideaPromoteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIdeaPromote },
	},
	"idea_delete": {
		def:     ideaDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIdeaDelete },
	},
	"feature_add": {
		def:     featureAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureAdd },
	},
	"feature_list": {
		def:     featureListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureList },
	},
	"feature_status": {
		def:     featureStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureStatus },
	},
	"feature_progress": {
		def:     featureProgressToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureProgress },
	},
	"feature_delete": {
		def:     featureDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureDelete },
	},
	"experiment_add": {
		def:     experimentAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExperimentAdd },
	},
	"experiment_list": {
		def:     experimentListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExperimentList },
	},
	"experiment_status": {
		def:     experimentStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExperimentStatus },
	},
	"experiment_result": {
		def:     experimentResultToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExperimentResult },
	},
	"experiment_delete": {
		def:     experimentDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExperimentDelete },
	},
	"tokens_log": {
		def:     tokensLogToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTokensLog },
	},
	"tokens_list": {
		def:     tokensListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTokensList },
	},
	"tokens_delete": {
		def:     tokensDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTokensDelete },
	},
	"marketing_log": {
		def:     marketingLogToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMarketingLog },
	},
	"marketing_overview": {
		def:     marketingOverviewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMarketingOverview },
	},
	"marketing_delete": {
		def:     marketingDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMarketingDelete },
	},
	"intake_classify": {
		def:     intakeClassifyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIntakeClassify },
	},
	"intake_message": {
		def:     intakeMessageToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleIntakeMessage },
	},
	"feedback_review": {
		def:     feedbackReviewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeedbackReview },
	},
	"board_summary": {
		def:     boardSummaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBoardSummary },
	},
	"remote_sync": {
		def:     remoteSyncToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemoteSync },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with planboard tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
// remote may be nil when no remote base URL is configured.
func NewServer(db *sql.DB, cfg *config.Config, remote ops.RemoteSource, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"planboard",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, remote)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, remote ops.RemoteSource, version string) error {
	s := NewServer(db, cfg, remote, version)
	return server.ServeStdio(s)
}
