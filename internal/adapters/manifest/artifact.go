package manifest

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"assetdump/internal/ports"
)

// knownFilters are the content filters a formula may name. "concat" is the
// implicit bundling step and accepted as a no-op marker.
var knownFilters = map[string]bool{
	"concat":            true,
	"strip-blank-lines": true,
}

// bundle is a composite artifact: the concatenation of its inputs, filtered.
type bundle struct {
	registry *Registry
	name     string
	target   string
	root     string
	src      string
	mtime    time.Time
	leaves   []ports.Artifact
	filters  []string
}

func (b *bundle) TargetPath() string       { return b.target }
func (b *bundle) SourceRoot() string       { return b.root }
func (b *bundle) SourcePath() string       { return b.src }
func (b *bundle) LastModified() time.Time  { return b.mtime }
func (b *bundle) Leaves() []ports.Artifact { return b.leaves }
func (b *bundle) RefName() string          { return "" }

// Produce concatenates every constituent's bytes and applies the formula's
// filters. Reference leaves are resolved through the registry at build time.
func (b *bundle) Produce() ([]byte, error) {
	parts := make([][]byte, 0, len(b.leaves))
	for _, leaf := range b.leaves {
		resolved := leaf
		if ref := leaf.RefName(); ref != "" {
			var err error
			resolved, err = b.registry.Resolve(ref)
			if err != nil {
				return nil, err
			}
		}
		data, err := resolved.Produce()
		if err != nil {
			return nil, err
		}
		parts = append(parts, data)
	}
	return applyFilters(bytes.Join(parts, []byte("\n")), b.filters), nil
}

// sourceLeaf is a raw input file, dumpable on its own in debug mode.
type sourceLeaf struct {
	src    string
	root   string
	target string
	mtime  time.Time
}

func (l *sourceLeaf) TargetPath() string       { return l.target }
func (l *sourceLeaf) SourceRoot() string       { return l.root }
func (l *sourceLeaf) SourcePath() string       { return l.src }
func (l *sourceLeaf) LastModified() time.Time  { return l.mtime }
func (l *sourceLeaf) Leaves() []ports.Artifact { return nil }
func (l *sourceLeaf) RefName() string          { return "" }

// Produce returns the raw source bytes: leaves are emitted unfiltered.
func (l *sourceLeaf) Produce() ([]byte, error) {
	return os.ReadFile(l.src)
}

// referenceLeaf names another asset; it must be resolved through the registry
// before inspection.
type referenceLeaf struct {
	name string
}

func (l *referenceLeaf) TargetPath() string       { return "" }
func (l *referenceLeaf) SourceRoot() string       { return "" }
func (l *referenceLeaf) SourcePath() string       { return "" }
func (l *referenceLeaf) LastModified() time.Time  { return time.Time{} }
func (l *referenceLeaf) Leaves() []ports.Artifact { return nil }
func (l *referenceLeaf) RefName() string          { return l.name }

func (l *referenceLeaf) Produce() ([]byte, error) {
	return nil, fmt.Errorf("reference %q not resolved", l.name)
}

// applyFilters runs the named filters over the bundled bytes.
func applyFilters(data []byte, filters []string) []byte {
	for _, filter := range filters {
		if filter == "strip-blank-lines" {
			data = stripBlankLines(data)
		}
	}
	return data
}

func stripBlankLines(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	kept := lines[:0]
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) > 0 {
			kept = append(kept, line)
		}
	}
	return bytes.Join(kept, []byte("\n"))
}
