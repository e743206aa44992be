package ops

import (
	"context"

	"github.com/hansvb/planboard/internal/remote"
)

// SyncOutput reports what one manual refresh brought in.
type SyncOutput struct {
	Ideas       int   `json:"ideas"`
	Experiments int   `json:"experiments"`
	Sessions    int   `json:"sessions"`
	Feedback    int   `json:"feedback"`
	KPIDays     int   `json:"kpi_days"`
	FetchedAt   int64 `json:"fetched_at"`
}

// Sync triggers an immediate remote refresh, outside the polling
// schedule, and reports the refreshed counts. With no remote source
// configured it reports an empty snapshot.
func Sync(ctx context.Context, src RemoteSource) *SyncOutput {
	var snap remote.Snapshot
	if src != nil {
		snap = src.RefreshNow(ctx)
	}

	return &SyncOutput{
		Ideas:       len(snap.Ideas),
		Experiments: len(snap.Experiments),
		Sessions:    len(snap.Sessions),
		Feedback:    len(snap.Feedback),
		KPIDays:     len(snap.Marketing.DailyLog),
		FetchedAt:   snap.FetchedAt,
	}
}
