package domain

// Snapshot maps artifact keys to their last-observed modification signatures.
// One snapshot instance is shared across a whole pass and persisted at the end
// of it, so incremental decisions survive process restarts.
type Snapshot map[ArtifactKey]Signature

// NewSnapshot returns an empty snapshot ("no prior knowledge").
func NewSnapshot() Snapshot {
	return make(Snapshot)
}

// HasChanged records sig as the latest observation for key and reports whether
// it differs from the previous one. A key never seen before is always a
// change. A differing mod time or a differing fingerprint each flip the result
// on their own; both must be unchanged for false. The snapshot is updated
// regardless of the outcome.
func (s Snapshot) HasChanged(key ArtifactKey, sig Signature) bool {
	prev, seen := s[key]
	s[key] = sig
	if !seen {
		return true
	}
	return !prev.Equal(sig)
}
