package domain

import (
	"encoding/json"
	"time"
)

// ArtifactKey identifies one emittable unit in a snapshot. Main assets and
// leaves live in separate key spaces: mains are keyed by logical asset name,
// leaves by resolved target path. The tag prefix keeps the two from ever
// colliding.
type ArtifactKey string

// MainKey returns the snapshot key for a named main asset.
func MainKey(name string) ArtifactKey {
	return ArtifactKey("main:" + name)
}

// LeafKey returns the snapshot key for a leaf, keyed by its target path.
func LeafKey(targetPath string) ArtifactKey {
	return ArtifactKey("leaf:" + targetPath)
}

// Formula is the declarative recipe for building an asset: which inputs go in,
// which filters apply, and where the output lands. An input may name another
// asset, making the corresponding leaf a reference that needs one extra
// resolution hop.
type Formula struct {
	Inputs  []string `yaml:"inputs" json:"inputs"`
	Filters []string `yaml:"filters,omitempty" json:"filters,omitempty"`
	Debug   *bool    `yaml:"debug,omitempty" json:"debug,omitempty"`
	Output  string   `yaml:"output,omitempty" json:"output,omitempty"`
}

// Fingerprint is a comparable serialized form of a Formula. Two fingerprints
// are equal iff the serialized forms match exactly. NoFingerprint marks an
// artifact with no formula; it compares unequal to every real fingerprint.
type Fingerprint string

// NoFingerprint is the fingerprint of an artifact that has no formula.
const NoFingerprint Fingerprint = ""

// Fingerprint serializes the formula into its comparable form.
func (f *Formula) Fingerprint() Fingerprint {
	if f == nil {
		return NoFingerprint
	}
	b, err := json.Marshal(f)
	if err != nil {
		// Formula is a plain value type; Marshal cannot fail on it.
		return NoFingerprint
	}
	return Fingerprint(b)
}

// Signature is the last-known modification state of one artifact: when it was
// last modified and how it was built at the time.
type Signature struct {
	ModTime     time.Time
	Fingerprint Fingerprint
}

// Equal reports whether two signatures describe the same observation.
func (s Signature) Equal(other Signature) bool {
	return s.ModTime.Equal(other.ModTime) && s.Fingerprint == other.Fingerprint
}
