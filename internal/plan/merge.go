package plan

// Mergeable is a Record that can report itself with a provenance tag.
// WithSource returns a tagged copy; entities are plain value types and
// are never mutated in place by the merge.
type Mergeable[E any] interface {
	Record
	WithSource(Source) E
}

// Merge combines the durable local entities with the read-only remote
// snapshot into one logical list. The remote snapshot is authoritative:
// any local entity whose id collides with a remote id is dropped from
// the combined view. Surviving local entities are tagged "manual",
// remote entities "remote". Ordering is remote order followed by the
// surviving locals; sorting is the pipeline's job, not the merge's.
//
// Merge is idempotent: re-running it over identical inputs yields an
// identical result, and no id ever appears twice in the output.
func Merge[E Mergeable[E]](local, remote []E) []E {
	out := make([]E, 0, len(local)+len(remote))

	remoteIDs := make(map[string]bool, len(remote))
	for _, r := range remote {
		remoteIDs[r.RecordID()] = true
		out = append(out, r.WithSource(SourceRemote))
	}

	for _, l := range local {
		if remoteIDs[l.RecordID()] {
			continue
		}
		out = append(out, l.WithSource(SourceManual))
	}

	return out
}
