package web

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/ops"
	"github.com/hansvb/planboard/internal/plan"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	remote   ops.RemoteSource
	renderer *Renderer
}

// listQuery extracts the shared list controls from the request.
func listQuery(r *http.Request) ops.ListQuery {
	return ops.ListQuery{
		Sort:     r.URL.Query().Get("sort"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Query:    r.URL.Query().Get("q"),
	}
}

func queryState(q ops.ListQuery) QueryState {
	return QueryState{
		Sort:     q.Sort,
		Category: q.Category,
		Status:   q.Status,
		Query:    q.Query,
	}
}

// HandleBoard handles GET /board, the cross-entity dashboard.
func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := ops.BoardSummary(r.Context(), h.db, h.cfg, h.remote)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "board", BoardPageData{
		PageData: PageData{
			Title:   "Board",
			Version: h.renderer.version,
			Nav:     "board",
		},
		Board:     board,
		FetchedAt: formatTime(board.RemoteFetchedAt),
	})
}

// HandleSync handles POST /sync, a manual remote refresh.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	sync := ops.Sync(r.Context(), h.remote)

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, sync)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/board")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Default: redirect back to the board
	http.Redirect(w, r, "/board", http.StatusFound)
}

// HandleIdeas handles GET /ideas, the merged idea list.
func (h *Handlers) HandleIdeas(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	result, err := ops.ListIdeas(r.Context(), h.db, h.cfg, h.remote, q)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "ideas", IdeasPageData{
		PageData: PageData{
			Title:   "Ideas",
			Version: h.renderer.version,
			Nav:     "ideas",
		},
		Ideas:      result.Ideas,
		Summary:    result.Summary,
		Categories: categoryStrings(plan.IdeaCategories),
		Statuses:   []string{"new", "in-progress", "completed"},
		QueryState: queryState(q),
	})
}

// HandleIdeaDetail handles GET /ideas/{id} for a single idea.
func (h *Handlers) HandleIdeaDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("idea ID is required"))
		return
	}

	idea, err := ops.GetIdea(r.Context(), h.db, h.remote, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "idea_detail", IdeaDetailPageData{
		PageData: PageData{
			Title:   idea.Title,
			Version: h.renderer.version,
			Nav:     "ideas",
		},
		Idea:         idea,
		RenderedHTML: renderMarkdown(idea.Description),
	})
}

// HandleIdeaDelete handles DELETE /ideas/{id}.
func (h *Handlers) HandleIdeaDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("idea ID is required"))
		return
	}

	if err := ops.DeleteIdea(r.Context(), h.db, h.remote, id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/ideas")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": true,
			"id":      id,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/ideas", http.StatusFound)
}

// HandleFeatures handles GET /features, the feature queue.
func (h *Handlers) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	result, err := ops.ListFeatures(r.Context(), h.db, h.cfg, q)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "features", FeaturesPageData{
		PageData: PageData{
			Title:   "Features",
			Version: h.renderer.version,
			Nav:     "features",
		},
		Features:   result.Features,
		Summary:    result.Summary,
		Categories: categoryStrings(plan.FeatureTypes),
		Statuses:   []string{"new", "in-progress", "blocked", "completed"},
		QueryState: queryState(q),
	})
}

// HandleExperiments handles GET /experiments, the experiment board.
func (h *Handlers) HandleExperiments(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	result, err := ops.ListExperiments(r.Context(), h.db, h.cfg, h.remote, q)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "experiments", ExperimentsPageData{
		PageData: PageData{
			Title:   "Experiments",
			Version: h.renderer.version,
			Nav:     "experiments",
		},
		Experiments: result.Experiments,
		Summary:     result.Summary,
		Categories:  categoryStrings(plan.ExperimentTypes),
		Statuses:    []string{"draft", "queued", "running", "completed", "failed", "paused"},
		QueryState:  queryState(q),
	})
}

// HandleTokens handles GET /tokens, the session log.
func (h *Handlers) HandleTokens(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	result, err := ops.ListTokenSessions(r.Context(), h.db, h.remote, q)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "tokens", TokensPageData{
		PageData: PageData{
			Title:   "Token Log",
			Version: h.renderer.version,
			Nav:     "tokens",
		},
		Sessions:   result.Sessions,
		Totals:     result.Totals,
		QueryState: queryState(q),
	})
}

// HandleMarketing handles GET /marketing, the KPI overview.
func (h *Handlers) HandleMarketing(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	result, err := ops.MarketingOverview(r.Context(), h.db, h.remote, q)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "marketing", MarketingPageData{
		PageData: PageData{
			Title:   "Marketing",
			Version: h.renderer.version,
			Nav:     "marketing",
		},
		Days:          result.Days,
		Totals:        result.Totals,
		Summary:       result.Summary,
		RenderedNotes: renderMarkdown(result.Notes),
		QueryState:    queryState(q),
	})
}

// categoryStrings converts a typed category slice to plain strings for
// the filter dropdowns.
func categoryStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
