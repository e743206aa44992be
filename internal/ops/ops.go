package ops

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/remote"
)

// RemoteSource supplies the in-memory remote snapshot. *remote.Poller
// satisfies it. Operations accept a nil source when no remote is
// configured and treat it as an empty snapshot.
type RemoteSource interface {
	Snapshot() remote.Snapshot
	RefreshNow(ctx context.Context) remote.Snapshot
}

// currentSnapshot reads the snapshot from an optional source.
func currentSnapshot(src RemoteSource) remote.Snapshot {
	if src == nil {
		return remote.Snapshot{}
	}
	return src.Snapshot()
}

// ListQuery carries the shared list parameters: a sort key plus the
// pipeline filter fields. Zero values mean "everything, storage order
// untouched".
type ListQuery struct {
	Sort     string
	Category string
	Status   string
	Query    string
}

func (q ListQuery) filter() plan.Filter {
	return plan.Filter{
		Category: q.Category,
		Status:   q.Status,
		Query:    q.Query,
	}
}

// runPipeline applies the query's filter then sort to a merged list.
func runPipeline[E plan.Record](items []E, q ListQuery) []E {
	items = plan.FilterBy(items, q.filter())
	return plan.SortBy(items, plan.SortKey(q.Sort))
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// validateScore checks an ICE input against its documented [1,10] range.
func validateScore(field string, v int) error {
	if v < 1 || v > 10 {
		return errors.NewInvalidRequest(fmt.Sprintf("%s must be between 1 and 10, got %d", field, v))
	}
	return nil
}

// requireText checks a required free-text field.
func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.NewInvalidRequest(field + " is required")
	}
	return nil
}

// validateDate checks an ISO date field (YYYY-MM-DD), defaulting empty
// input to today.
func validateDate(v string) (string, error) {
	if v == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("date must be YYYY-MM-DD, got %q", v))
	}
	return v, nil
}

// mutationTarget resolves where a mutation against id would land. The
// local store is checked first; ids only present in the remote snapshot
// are read-only.
func mutationTarget(localErr error, remoteHasID bool, id string) error {
	if localErr == nil {
		return nil
	}
	if errors.Is(localErr, errors.ErrNotFound) && remoteHasID {
		return errors.NewReadOnly(id)
	}
	return localErr
}

func containsID[E plan.Record](items []E, id string) bool {
	for _, item := range items {
		if item.RecordID() == id {
			return true
		}
	}
	return false
}
