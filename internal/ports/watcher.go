package ports

// TreeWatcher delivers change notifications for a set of directory trees.
// Implementations coalesce event bursts; onChange may therefore fire once for
// many underlying filesystem events. Event delivery is best-effort: a watcher
// may silently miss events, so callers must pair it with a polling fallback.
type TreeWatcher interface {
	// Watch begins watching the given directories recursively, invoking
	// onChange after changes are observed. It returns once watching is
	// established.
	Watch(dirs []string, onChange func()) error

	// Close stops event delivery and releases watch resources.
	Close() error
}

// ArtifactWriter materializes one artifact onto the filesystem.
type ArtifactWriter interface {
	Write(a Artifact) error
}
