package plan

import "time"

// Source marks where an entity originated.
type Source string

const (
	// SourceManual marks entities created locally through the CLI, MCP
	// tools, or the web form. These live in the local store and can be
	// mutated and deleted.
	SourceManual Source = "manual"

	// SourceRemote marks entities that came from the remote JSON
	// snapshot. They are read-only and refreshed wholesale on each poll.
	SourceRemote Source = "remote"
)

// ICEScore holds the Impact/Confidence/Ease inputs and their derived
// average. Total is always recomputed from the three inputs via
// ComputeICE; it is never set independently.
type ICEScore struct {
	Impact     int     `json:"impact"`
	Confidence int     `json:"confidence"`
	Ease       int     `json:"ease"`
	Total      float64 `json:"total"`
}

// IdeaCategory enumerates the idea cost-table categories.
type IdeaCategory string

const (
	IdeaFeatureImprovement   IdeaCategory = "Feature Improvement"
	IdeaNewAdCreative        IdeaCategory = "New Ad Creative"
	IdeaNewStrategy          IdeaCategory = "New Strategy"
	IdeaUserExperience       IdeaCategory = "User Experience"
	IdeaTechnicalEnhancement IdeaCategory = "Technical Enhancement"
	IdeaMarketingCampaign    IdeaCategory = "Marketing Campaign"
	IdeaProductExtension     IdeaCategory = "Product Extension"
	IdeaGrowthInitiative     IdeaCategory = "Growth Initiative"
)

// IdeaCategories lists all valid idea categories in display order.
var IdeaCategories = []IdeaCategory{
	IdeaFeatureImprovement, IdeaNewAdCreative, IdeaNewStrategy,
	IdeaUserExperience, IdeaTechnicalEnhancement, IdeaMarketingCampaign,
	IdeaProductExtension, IdeaGrowthInitiative,
}

// FeatureType enumerates the feature cost-table categories.
type FeatureType string

const (
	FeatureCore        FeatureType = "Core Feature"
	FeatureEnhancement FeatureType = "Enhancement"
	FeatureIntegration FeatureType = "Integration"
	FeaturePerformance FeatureType = "Performance"
	FeatureSecurity    FeatureType = "Security"
)

// FeatureTypes lists all valid feature types in display order.
var FeatureTypes = []FeatureType{
	FeatureCore, FeatureEnhancement, FeatureIntegration,
	FeaturePerformance, FeatureSecurity,
}

// ExperimentType enumerates the experiment cost-table categories.
type ExperimentType string

const (
	ExperimentABTest        ExperimentType = "A/B Test"
	ExperimentMarketingCopy ExperimentType = "Marketing Copy"
	ExperimentLandingPage   ExperimentType = "Landing Page"
	ExperimentAdCampaign    ExperimentType = "Ad Campaign"
	ExperimentPriceTest     ExperimentType = "Price Test"
)

// ExperimentTypes lists all valid experiment types in display order.
var ExperimentTypes = []ExperimentType{
	ExperimentABTest, ExperimentMarketingCopy, ExperimentLandingPage,
	ExperimentAdCampaign, ExperimentPriceTest,
}

// Status values per entity type.
type IdeaStatus string

const (
	IdeaStatusNew        IdeaStatus = "new"
	IdeaStatusInProgress IdeaStatus = "in-progress"
	IdeaStatusCompleted  IdeaStatus = "completed"
)

type FeatureStatus string

const (
	FeatureStatusNew        FeatureStatus = "new"
	FeatureStatusInProgress FeatureStatus = "in-progress"
	FeatureStatusBlocked    FeatureStatus = "blocked"
	FeatureStatusCompleted  FeatureStatus = "completed"
)

type ExperimentStatus string

const (
	ExperimentStatusDraft     ExperimentStatus = "draft"
	ExperimentStatusQueued    ExperimentStatus = "queued"
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusCompleted ExperimentStatus = "completed"
	ExperimentStatusFailed    ExperimentStatus = "failed"
	ExperimentStatusPaused    ExperimentStatus = "paused"
)

// ValidIdeaCategory reports whether c is one of the idea categories.
func ValidIdeaCategory(c IdeaCategory) bool {
	for _, known := range IdeaCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidFeatureType reports whether t is one of the feature types.
func ValidFeatureType(t FeatureType) bool {
	for _, known := range FeatureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ValidExperimentType reports whether t is one of the experiment types.
func ValidExperimentType(t ExperimentType) bool {
	for _, known := range ExperimentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ValidIdeaStatus reports whether s is one of the idea statuses.
func ValidIdeaStatus(s IdeaStatus) bool {
	switch s {
	case IdeaStatusNew, IdeaStatusInProgress, IdeaStatusCompleted:
		return true
	}
	return false
}

// ValidFeatureStatus reports whether s is one of the feature statuses.
func ValidFeatureStatus(s FeatureStatus) bool {
	switch s {
	case FeatureStatusNew, FeatureStatusInProgress, FeatureStatusBlocked, FeatureStatusCompleted:
		return true
	}
	return false
}

// ValidExperimentStatus reports whether s is one of the experiment statuses.
func ValidExperimentStatus(s ExperimentStatus) bool {
	switch s {
	case ExperimentStatusDraft, ExperimentStatusQueued, ExperimentStatusRunning,
		ExperimentStatusCompleted, ExperimentStatusFailed, ExperimentStatusPaused:
		return true
	}
	return false
}

// Idea is a logged business idea, scored with ICE.
type Idea struct {
	// ID is a ULID for locally created ideas; remote ideas keep the
	// writer's id (a millisecond epoch rendered as a string).
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    IdeaCategory `json:"category"`
	ICE         ICEScore     `json:"ice_score"`
	TokenCost   int          `json:"token_cost"`
	Status      IdeaStatus   `json:"status"`

	// Promoted marks an idea informally promoted to an experiment.
	// There is no foreign key; it is display state only.
	Promoted bool `json:"promoted,omitempty"`

	// CreatedAt is the Unix timestamp when the idea was created.
	CreatedAt int64  `json:"created_at"`
	Source    Source `json:"source"`
}

// Feature is a planned product feature with a weighted priority.
type Feature struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        FeatureType   `json:"type"`
	ICE         ICEScore      `json:"ice_score"`
	Complexity  int           `json:"complexity"` // 1-10
	Priority    float64       `json:"priority"`
	TokenCost   int           `json:"token_cost"`
	Status      FeatureStatus `json:"status"`
	Progress    int           `json:"progress"` // 0-100
	CreatedAt   int64         `json:"created_at"`
	Source      Source        `json:"source"`
}

// ExperimentResults holds the measured outcome of a completed experiment.
type ExperimentResults struct {
	Lift float64 `json:"lift"`
}

// Experiment is a queued or running growth experiment.
type Experiment struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Hypothesis   string             `json:"hypothesis"`
	Type         ExperimentType     `json:"type"`
	ICE          ICEScore           `json:"ice_score"`
	TokenCost    int                `json:"token_cost"`
	Status       ExperimentStatus   `json:"status"`
	DurationDays int                `json:"duration_days"`
	Results      *ExperimentResults `json:"results,omitempty"`
	SampleSize   *int               `json:"sample_size,omitempty"`
	CreatedAt    int64              `json:"created_at"`
	Source       Source             `json:"source"`
}

// TokenSession is one logged AI work session with token counts and cost.
type TokenSession struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"` // "2006-01-02"
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Cost         float64 `json:"cost"`
	Tasks        string  `json:"tasks,omitempty"`
	Source       Source  `json:"source"`
}

// MarketingDay is one row of the daily marketing KPI log.
type MarketingDay struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"` // "2006-01-02"
	Spend    float64 `json:"spend"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
	Sessions int     `json:"sessions"`
	CTR      float64 `json:"ctr"`
	CPA      float64 `json:"cpa"`
	Source   Source  `json:"source"`
}

// ROAS returns revenue/spend, or nil when there is no spend to divide by.
func (m MarketingDay) ROAS() *float64 {
	if m.Spend == 0 {
		return nil
	}
	r := m.Revenue / m.Spend
	return &r
}

// Record accessors used by the merge/sort/filter pipeline. Method names
// avoid colliding with the struct fields they expose.

func (i Idea) RecordID() string    { return i.ID }
func (i Idea) ScoreValue() float64 { return i.ICE.Total }
func (i Idea) TokenTotal() int     { return i.TokenCost }
func (i Idea) CreatedUnix() int64  { return i.CreatedAt }
func (i Idea) LabelKey() string    { return i.Title }
func (i Idea) CategoryKey() string { return string(i.Category) }
func (i Idea) StatusKey() string   { return string(i.Status) }
func (i Idea) MatchText() string   { return i.Title + " " + i.Description }

func (f Feature) RecordID() string    { return f.ID }
func (f Feature) ScoreValue() float64 { return f.Priority }
func (f Feature) TokenTotal() int     { return f.TokenCost }
func (f Feature) CreatedUnix() int64  { return f.CreatedAt }
func (f Feature) LabelKey() string    { return f.Title }
func (f Feature) CategoryKey() string { return string(f.Type) }
func (f Feature) StatusKey() string   { return string(f.Status) }
func (f Feature) MatchText() string   { return f.Title + " " + f.Description }

func (e Experiment) RecordID() string    { return e.ID }
func (e Experiment) ScoreValue() float64 { return e.ICE.Total }
func (e Experiment) TokenTotal() int     { return e.TokenCost }
func (e Experiment) CreatedUnix() int64  { return e.CreatedAt }
func (e Experiment) LabelKey() string    { return e.Title }
func (e Experiment) CategoryKey() string { return string(e.Type) }
func (e Experiment) StatusKey() string   { return string(e.Status) }
func (e Experiment) MatchText() string   { return e.Title + " " + e.Hypothesis }

func (s TokenSession) RecordID() string    { return s.ID }
func (s TokenSession) ScoreValue() float64 { return 0 }
func (s TokenSession) TokenTotal() int     { return s.TotalTokens }
func (s TokenSession) CreatedUnix() int64  { return dateUnix(s.Date) }
func (s TokenSession) LabelKey() string    { return s.Date }
func (s TokenSession) CategoryKey() string { return s.Model }
func (s TokenSession) StatusKey() string   { return "" }
func (s TokenSession) MatchText() string   { return s.Model + " " + s.Tasks }

func (m MarketingDay) RecordID() string   { return m.ID }
func (m MarketingDay) TokenTotal() int    { return 0 }
func (m MarketingDay) CreatedUnix() int64 { return dateUnix(m.Date) }
func (m MarketingDay) LabelKey() string   { return m.Date }
func (m MarketingDay) CategoryKey() string { return "" }
func (m MarketingDay) StatusKey() string   { return "" }
func (m MarketingDay) MatchText() string   { return m.Date }

// ScoreValue exposes ROAS so KPI rows can ride the same sort pipeline.
func (m MarketingDay) ScoreValue() float64 {
	if r := m.ROAS(); r != nil {
		return *r
	}
	return 0
}

// dateUnix converts a "2006-01-02" date to a Unix timestamp for date
// ordering. Unparseable dates sort to the epoch.
func dateUnix(date string) int64 {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// WithSource returns a copy tagged with the given provenance.

func (i Idea) WithSource(s Source) Idea {
	i.Source = s
	return i
}

func (f Feature) WithSource(s Source) Feature {
	f.Source = s
	return f
}

func (e Experiment) WithSource(s Source) Experiment {
	e.Source = s
	return e
}

func (s TokenSession) WithSource(src Source) TokenSession {
	s.Source = src
	return s
}

func (m MarketingDay) WithSource(s Source) MarketingDay {
	m.Source = s
	return m
}
