package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/remote"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// fakeRemote serves a fixed snapshot, standing in for the poller.
type fakeRemote struct {
	snap      remote.Snapshot
	refreshed int
}

func (f *fakeRemote) Snapshot() remote.Snapshot {
	return f.snap
}

func (f *fakeRemote) RefreshNow(ctx context.Context) remote.Snapshot {
	f.refreshed++
	return f.snap
}

func intPtr(n int) *int {
	return &n
}
