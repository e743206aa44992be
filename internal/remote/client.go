package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hansvb/planboard/internal/plan"
)

const fetchTimeout = 30 * time.Second

// Client reads the remote JSON documents. The remote side is written
// out-of-band; this client never writes. Any network or parse failure
// degrades to an empty collection rather than an error, so callers
// always receive a well-formed (possibly empty) result.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given base URL. An empty base URL
// yields a client whose fetches all return empty defaults.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Snapshot is one complete read of every remote document.
type Snapshot struct {
	Ideas       []plan.Idea
	Experiments []plan.Experiment
	Sessions    []plan.TokenSession
	Feedback    []FeedbackNote
	Marketing   MarketingSnapshot
	FetchedAt   int64
}

// FeedbackNote is one inbound feedback message from the remote
// feedback document. Notes are raw text; the intake operation runs
// them through the classifier.
type FeedbackNote struct {
	ID        string
	Text      string
	CreatedAt int64
}

// MarketingSnapshot mirrors the remote marketing document: a daily KPI
// log plus free-form summary values and markdown notes.
type MarketingSnapshot struct {
	DailyLog []plan.MarketingDay
	Summary  map[string]any
	Notes    string
}

// FetchSnapshot reads all remote documents. Individual document
// failures leave that document empty; the snapshot itself always
// succeeds.
func (c *Client) FetchSnapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Ideas:       c.FetchIdeas(ctx),
		Experiments: c.FetchExperiments(ctx),
		Sessions:    c.FetchTokens(ctx),
		Feedback:    c.FetchFeedback(ctx),
		Marketing:   c.FetchMarketing(ctx),
		FetchedAt:   time.Now().Unix(),
	}
}

// FetchIdeas reads ideas.json, or an empty slice on any failure.
func (c *Client) FetchIdeas(ctx context.Context) []plan.Idea {
	var doc struct {
		Ideas []wireIdea `json:"ideas"`
	}
	if err := c.getJSON(ctx, "ideas.json", &doc); err != nil {
		log.Printf("remote: ideas fetch failed: %v", err)
		return nil
	}
	ideas := make([]plan.Idea, 0, len(doc.Ideas))
	for _, w := range doc.Ideas {
		ideas = append(ideas, w.toIdea())
	}
	return ideas
}

// FetchExperiments reads experiments.json, or an empty slice on any failure.
func (c *Client) FetchExperiments(ctx context.Context) []plan.Experiment {
	var doc struct {
		Experiments []wireExperiment `json:"experiments"`
	}
	if err := c.getJSON(ctx, "experiments.json", &doc); err != nil {
		log.Printf("remote: experiments fetch failed: %v", err)
		return nil
	}
	experiments := make([]plan.Experiment, 0, len(doc.Experiments))
	for _, w := range doc.Experiments {
		experiments = append(experiments, w.toExperiment())
	}
	return experiments
}

// FetchTokens reads tokens.json, or an empty slice on any failure.
// The collection is wrapped under "sessions" on the wire.
func (c *Client) FetchTokens(ctx context.Context) []plan.TokenSession {
	var doc struct {
		Sessions []wireSession `json:"sessions"`
	}
	if err := c.getJSON(ctx, "tokens.json", &doc); err != nil {
		log.Printf("remote: tokens fetch failed: %v", err)
		return nil
	}
	sessions := make([]plan.TokenSession, 0, len(doc.Sessions))
	for _, w := range doc.Sessions {
		sessions = append(sessions, w.toSession())
	}
	return sessions
}

// FetchFeedback reads feedback.json, or an empty slice on any failure.
func (c *Client) FetchFeedback(ctx context.Context) []FeedbackNote {
	var doc struct {
		Feedback []wireFeedback `json:"feedback"`
	}
	if err := c.getJSON(ctx, "feedback.json", &doc); err != nil {
		log.Printf("remote: feedback fetch failed: %v", err)
		return nil
	}
	notes := make([]FeedbackNote, 0, len(doc.Feedback))
	for _, w := range doc.Feedback {
		notes = append(notes, FeedbackNote{
			ID:        string(w.ID),
			Text:      w.Text,
			CreatedAt: int64(w.Date),
		})
	}
	return notes
}

// FetchMarketing reads marketing.json, or empty defaults on any failure.
func (c *Client) FetchMarketing(ctx context.Context) MarketingSnapshot {
	var doc struct {
		DailyLog []wireMarketingDay `json:"dailyLog"`
		Summary  map[string]any     `json:"summary"`
		Notes    string             `json:"notes"`
	}
	if err := c.getJSON(ctx, "marketing.json", &doc); err != nil {
		log.Printf("remote: marketing fetch failed: %v", err)
		return MarketingSnapshot{}
	}
	days := make([]plan.MarketingDay, 0, len(doc.DailyLog))
	for _, w := range doc.DailyLog {
		days = append(days, w.toMarketingDay())
	}
	return MarketingSnapshot{DailyLog: days, Summary: doc.Summary, Notes: doc.Notes}
}

// getJSON issues a GET for baseURL/path with a cache-busting timestamp
// parameter appended, and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	if c.baseURL == "" {
		return fmt.Errorf("no remote base URL configured")
	}

	url := fmt.Sprintf("%s/%s?t=%d", c.baseURL, path, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// The remote writer renders ids as Date.now() numbers and costs via
// toFixed, so ids arrive as numbers and costs sometimes as strings.
// The flex types below absorb both renderings.

// flexID decodes a JSON string or number into a string id.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexFloat decodes a JSON number or numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexTime decodes an RFC 3339 string, a plain date, or an epoch number
// (seconds or milliseconds) into a Unix timestamp.
type flexTime int64

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*f = flexTime(t.Unix())
			return nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			*f = flexTime(t.Unix())
			return nil
		}
		*f = 0
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Date.now() epochs are milliseconds
	if n > 1e12 {
		n /= 1000
	}
	*f = flexTime(n)
	return nil
}

type wireIdea struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tag         string `json:"tag"`
	Impact      int    `json:"impact"`
	Confidence  int    `json:"confidence"`
	Ease        int    `json:"ease"`
	TokenCost   int    `json:"tokenCost"`
	Status      string `json:"status"`
	Promoted    bool   `json:"promoted"`

	CreatedAt flexTime `json:"createdAt"`
	Date      flexTime `json:"date"`
}

func (w wireIdea) toIdea() plan.Idea {
	idea := plan.Idea{
		ID:          string(w.ID),
		Title:       w.Title,
		Description: w.Description,
		Category:    plan.IdeaCategory(w.Category),
		TokenCost:   w.TokenCost,
		Status:      plan.IdeaStatus(w.Status),
		Promoted:    w.Promoted,
		CreatedAt:   int64(w.CreatedAt),
		Source:      plan.SourceRemote,
	}
	// Older writer rows use text/tag/date instead of title/category/createdAt
	if idea.Title == "" {
		idea.Title = w.Text
	}
	if idea.Category == "" {
		idea.Category = plan.IdeaCategory(w.Tag)
	}
	if idea.CreatedAt == 0 {
		idea.CreatedAt = int64(w.Date)
	}
	if idea.Status == "" {
		idea.Status = plan.IdeaStatusNew
	}
	if w.Impact != 0 || w.Confidence != 0 || w.Ease != 0 {
		idea.ICE = plan.ComputeICE(w.Impact, w.Confidence, w.Ease)
	}
	return idea
}

type wireExperiment struct {
	ID           flexID `json:"id"`
	Title        string `json:"title"`
	Hypothesis   string `json:"hypothesis"`
	Type         string `json:"type"`
	Impact       int    `json:"impact"`
	Confidence   int    `json:"confidence"`
	Ease         int    `json:"ease"`
	TokenCost    int    `json:"tokenCost"`
	Status       string `json:"status"`
	DurationDays int    `json:"durationDays"`
	Results      *struct {
		Lift flexFloat `json:"lift"`
	} `json:"results"`
	SampleSize *int     `json:"sampleSize"`
	CreatedAt  flexTime `json:"createdAt"`
	Date       flexTime `json:"date"`
}

func (w wireExperiment) toExperiment() plan.Experiment {
	e := plan.Experiment{
		ID:           string(w.ID),
		Title:        w.Title,
		Hypothesis:   w.Hypothesis,
		Type:         plan.ExperimentType(w.Type),
		TokenCost:    w.TokenCost,
		Status:       plan.ExperimentStatus(w.Status),
		DurationDays: w.DurationDays,
		SampleSize:   w.SampleSize,
		CreatedAt:    int64(w.CreatedAt),
		Source:       plan.SourceRemote,
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = int64(w.Date)
	}
	if e.Status == "" {
		e.Status = plan.ExperimentStatusDraft
	}
	if w.Impact != 0 || w.Confidence != 0 || w.Ease != 0 {
		e.ICE = plan.ComputeICE(w.Impact, w.Confidence, w.Ease)
	}
	if w.Results != nil {
		e.Results = &plan.ExperimentResults{Lift: float64(w.Results.Lift)}
	}
	return e
}

type wireSession struct {
	ID           flexID    `json:"id"`
	Date         string    `json:"date"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	TotalTokens  int       `json:"totalTokens"`
	Cost         flexFloat `json:"cost"`
	Tasks        string    `json:"tasks"`
}

func (w wireSession) toSession() plan.TokenSession {
	s := plan.TokenSession{
		ID:           string(w.ID),
		Date:         w.Date,
		Model:        w.Model,
		InputTokens:  w.InputTokens,
		OutputTokens: w.OutputTokens,
		TotalTokens:  w.TotalTokens,
		Cost:         float64(w.Cost),
		Tasks:        w.Tasks,
		Source:       plan.SourceRemote,
	}
	if s.TotalTokens == 0 {
		s.TotalTokens = s.InputTokens + s.OutputTokens
	}
	return s
}

type wireFeedback struct {
	ID   flexID   `json:"id"`
	Text string   `json:"text"`
	Date flexTime `json:"date"`
}

type wireMarketingDay struct {
	ID       flexID    `json:"id"`
	Date     string    `json:"date"`
	Spend    flexFloat `json:"spend"`
	Revenue  flexFloat `json:"revenue"`
	Orders   int       `json:"orders"`
	Sessions int       `json:"sessions"`
	CTR      flexFloat `json:"ctr"`
	CPA      flexFloat `json:"cpa"`
}

func (w wireMarketingDay) toMarketingDay() plan.MarketingDay {
	m := plan.MarketingDay{
		ID:       string(w.ID),
		Date:     w.Date,
		Spend:    float64(w.Spend),
		Revenue:  float64(w.Revenue),
		Orders:   w.Orders,
		Sessions: w.Sessions,
		CTR:      float64(w.CTR),
		CPA:      float64(w.CPA),
		Source:   plan.SourceRemote,
	}
	// KPI rows are keyed by date when the writer omits ids
	if m.ID == "" {
		m.ID = m.Date
	}
	return m
}
