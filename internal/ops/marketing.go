package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// LogMarketingDayInput contains parameters for the LogMarketingDay
// operation. An empty date defaults to today.
type LogMarketingDayInput struct {
	Date     string
	Spend    float64
	Revenue  float64
	Orders   int
	Sessions int
	CTR      float64
	CPA      float64
}

// LogMarketingDay stores one row of the daily KPI log.
func LogMarketingDay(ctx context.Context, database *sql.DB, input LogMarketingDayInput) (*plan.MarketingDay, error) {
	if input.Spend < 0 || input.Revenue < 0 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"spend and revenue must be non-negative, got spend=%.2f revenue=%.2f",
			input.Spend, input.Revenue))
	}
	if input.Orders < 0 || input.Sessions < 0 {
		return nil, errors.NewInvalidRequest("orders and sessions must be non-negative")
	}

	date, err := validateDate(input.Date)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	day := &plan.MarketingDay{
		ID:       id,
		Date:     date,
		Spend:    input.Spend,
		Revenue:  input.Revenue,
		Orders:   input.Orders,
		Sessions: input.Sessions,
		CTR:      input.CTR,
		CPA:      input.CPA,
		Source:   plan.SourceManual,
	}

	if err := db.InsertMarketingDay(database, day); err != nil {
		return nil, err
	}
	return day, nil
}

// MarketingTotals aggregates the KPI log. ROAS is nil when there is no
// spend, matching the per-row behavior.
type MarketingTotals struct {
	Spend   float64  `json:"spend"`
	Revenue float64  `json:"revenue"`
	Orders  int      `json:"orders"`
	ROAS    *float64 `json:"roas,omitempty"`
}

// MarketingOverviewOutput combines the merged KPI log with the remote
// summary block and notes.
type MarketingOverviewOutput struct {
	Days    []plan.MarketingDay `json:"days"`
	Totals  MarketingTotals     `json:"totals"`
	Summary map[string]any      `json:"summary,omitempty"`
	Notes   string              `json:"notes,omitempty"`
}

// MarketingOverview merges local KPI rows with the remote daily log
// (remote wins on id collision) and carries the remote summary and
// notes through unchanged.
func MarketingOverview(ctx context.Context, database *sql.DB, src RemoteSource, q ListQuery) (*MarketingOverviewOutput, error) {
	local, err := db.ListMarketingDays(database)
	if err != nil {
		return nil, err
	}

	snap := currentSnapshot(src)
	merged := plan.Merge(local, snap.Marketing.DailyLog)
	merged = runPipeline(merged, q)

	var totals MarketingTotals
	for _, d := range merged {
		totals.Spend += d.Spend
		totals.Revenue += d.Revenue
		totals.Orders += d.Orders
	}
	if totals.Spend > 0 {
		roas := totals.Revenue / totals.Spend
		totals.ROAS = &roas
	}

	return &MarketingOverviewOutput{
		Days:    merged,
		Totals:  totals,
		Summary: snap.Marketing.Summary,
		Notes:   snap.Marketing.Notes,
	}, nil
}

// DeleteMarketingDay removes a local KPI row. Remote-sourced rows are
// read-only.
func DeleteMarketingDay(ctx context.Context, database *sql.DB, src RemoteSource, id string) error {
	err := db.DeleteMarketingDay(database, id)
	return mutationTarget(err, containsID(currentSnapshot(src).Marketing.DailyLog, id), id)
}
