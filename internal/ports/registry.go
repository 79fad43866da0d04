package ports

import (
	"time"

	"assetdump/internal/domain"
)

// Artifact is one emittable unit resolved by the registry: a target path on
// disk, a byte-producing build, and zero or more constituent leaves when the
// artifact is a composite bundle.
type Artifact interface {
	// TargetPath returns the resolved output path for this artifact.
	TargetPath() string

	// SourceRoot and SourcePath locate the artifact's origin, for
	// diagnostics only. Either may be empty when unknown.
	SourceRoot() string
	SourcePath() string

	// LastModified returns the artifact's effective modification time.
	// For a composite this is the newest time across its constituents.
	LastModified() time.Time

	// Produce performs the actual build and returns the output bytes.
	Produce() ([]byte, error)

	// Leaves returns the constituent leaf artifacts of a composite, in
	// formula order. Atomic artifacts return nil.
	Leaves() []Artifact

	// RefName returns the asset name this artifact references, or "" if it
	// is not a reference. A reference must be resolved through the
	// registry before inspection.
	RefName() string
}

// AssetRegistry resolves asset names to build recipes and renderable
// artifacts. Resolved artifacts may be cached by name; ForceReload must drop
// that cache and re-read definitions so recipe edits are observed.
type AssetRegistry interface {
	// Names lists every known asset name in registry order.
	Names() []string

	// HasFormula reports whether the named asset has a build formula.
	HasFormula(name string) bool

	// Formula returns the named asset's formula, or nil if it has none.
	Formula(name string) *domain.Formula

	// Resolve materializes the named asset into an artifact.
	Resolve(name string) (Artifact, error)

	// DebugMode reports the registry's global debug flag.
	DebugMode() bool

	// ForceReload drops cached resolved artifacts and re-reads asset
	// definitions from source.
	ForceReload() error

	// WatchDirs lists the source directories to monitor for changes.
	WatchDirs() []string
}
