package ports

import "assetdump/internal/domain"

// SnapshotStore persists a snapshot across process restarts. Load maps a
// missing or unreadable store to an empty snapshot rather than an error, so a
// cold start and a corrupt store behave the same: no prior knowledge.
type SnapshotStore interface {
	Load() (domain.Snapshot, error)
	Save(domain.Snapshot) error
}
