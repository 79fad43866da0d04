// Package manifest implements the asset registry on top of a YAML manifest
// declaring named assets and their build formulas.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// Sentinel errors for resolution failures
var (
	ErrUnknownAsset  = errors.New("unknown asset")
	ErrUnknownFilter = errors.New("unknown filter")
)

// DefaultOutputRoot is used when neither the caller nor the manifest names an
// output root.
const DefaultOutputRoot = "dist"

// manifestFile mirrors the on-disk YAML structure:
//
//	debug: true
//	output: dist
//	roots: [src]
//	assets:
//	  app.js:
//	    inputs: [js/a.js, js/b.js]
//	    filters: [strip-blank-lines]
//	    output: js/app.js
type manifestFile struct {
	Debug  bool                       `yaml:"debug"`
	Output string                     `yaml:"output"`
	Roots  []string                   `yaml:"roots"`
	Assets map[string]*domain.Formula `yaml:"assets"`
}

// Registry is a manifest-backed asset registry. Resolved artifacts are cached
// by name until ForceReload, which also re-reads the manifest so recipe edits
// are observed on the next pass.
type Registry struct {
	path       string // absolute manifest path
	baseDir    string
	outputRoot string

	mu        sync.Mutex
	def       *manifestFile
	resolved  map[string]ports.Artifact
	resolving map[string]bool
}

// Ensure Registry implements AssetRegistry
var _ ports.AssetRegistry = (*Registry)(nil)

// Open reads the manifest at path. outputRoot overrides the manifest's output
// root when non-empty; the effective root is fixed at open time and not
// re-derived on reload.
func Open(path, outputRoot string) (*Registry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	r := &Registry{
		path:       abs,
		baseDir:    filepath.Dir(abs),
		outputRoot: outputRoot,
		resolved:   make(map[string]ports.Artifact),
		resolving:  make(map[string]bool),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	if r.outputRoot == "" {
		r.outputRoot = r.def.Output
	}
	if r.outputRoot == "" {
		r.outputRoot = DefaultOutputRoot
	}
	if !filepath.IsAbs(r.outputRoot) {
		r.outputRoot = filepath.Join(r.baseDir, r.outputRoot)
	}
	return r, nil
}

// load re-reads and parses the manifest file.
func (r *Registry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", r.path, err)
	}
	var def manifestFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", r.path, err)
	}
	if def.Assets == nil {
		def.Assets = make(map[string]*domain.Formula)
	}
	r.def = &def
	return nil
}

// OutputRoot returns the effective output root for this registry.
func (r *Registry) OutputRoot() string {
	return r.outputRoot
}

// Names lists every declared asset name, sorted for a stable pass order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.def.Assets))
	for name := range r.def.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasFormula reports whether the named asset has a build formula
func (r *Registry) HasFormula(name string) bool {
	return r.Formula(name) != nil
}

// Formula returns the named asset's formula, or nil if unknown
func (r *Registry) Formula(name string) *domain.Formula {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.def.Assets[name]
}

// DebugMode reports the manifest's global debug flag
func (r *Registry) DebugMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.def.Debug
}

// WatchDirs lists the manifest directory plus every declared source root.
func (r *Registry) WatchDirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	dirs := []string{r.baseDir}
	seen := map[string]bool{r.baseDir: true}
	for _, root := range r.def.Roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(r.baseDir, root)
		}
		if !seen[root] {
			seen[root] = true
			dirs = append(dirs, root)
		}
	}
	return dirs
}

// ForceReload drops every cached resolved artifact and re-reads the manifest.
func (r *Registry) ForceReload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resolved = make(map[string]ports.Artifact)
	return r.load()
}

// ResolvedCount returns the number of cached resolved artifacts.
func (r *Registry) ResolvedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resolved)
}

// Resolve materializes the named asset into a composite bundle artifact.
func (r *Registry) Resolve(name string) (ports.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(name)
}

func (r *Registry) resolveLocked(name string) (ports.Artifact, error) {
	if a, ok := r.resolved[name]; ok {
		return a, nil
	}
	formula := r.def.Assets[name]
	if formula == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, name)
	}
	if r.resolving[name] {
		return nil, fmt.Errorf("dependency cycle through %q", name)
	}
	r.resolving[name] = true
	defer delete(r.resolving, name)

	for _, filter := range formula.Filters {
		if !knownFilters[filter] {
			return nil, fmt.Errorf("asset %q: %w: %q", name, ErrUnknownFilter, filter)
		}
	}

	var leaves []ports.Artifact
	var newest time.Time
	for _, input := range formula.Inputs {
		// An input naming another asset is a reference leaf; it costs
		// one extra resolution hop before inspection.
		if _, isRef := r.def.Assets[input]; isRef {
			ref, err := r.resolveLocked(input)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, &referenceLeaf{name: input})
			if ref.LastModified().After(newest) {
				newest = ref.LastModified()
			}
			continue
		}

		src := filepath.Join(r.baseDir, input)
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("asset %q input %s: %w", name, input, err)
		}
		leaf := &sourceLeaf{
			src:    src,
			root:   r.baseDir,
			target: filepath.Join(r.outputRoot, input),
			mtime:  info.ModTime(),
		}
		leaves = append(leaves, leaf)
		if leaf.mtime.After(newest) {
			newest = leaf.mtime
		}
	}

	out := formula.Output
	if out == "" {
		out = name
	}
	b := &bundle{
		registry: r,
		name:     name,
		target:   filepath.Join(r.outputRoot, out),
		root:     r.baseDir,
		src:      r.path,
		mtime:    newest,
		leaves:   leaves,
		filters:  formula.Filters,
	}
	r.resolved[name] = b
	return b, nil
}
