package application

import (
	"errors"
	"fmt"
	"time"

	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// fakeArtifact is an in-memory ports.Artifact for engine and pass tests.
type fakeArtifact struct {
	target string
	root   string
	src    string
	mtime  time.Time
	data   []byte
	leaves []ports.Artifact
	ref    string
}

func (a *fakeArtifact) TargetPath() string      { return a.target }
func (a *fakeArtifact) SourceRoot() string      { return a.root }
func (a *fakeArtifact) SourcePath() string      { return a.src }
func (a *fakeArtifact) LastModified() time.Time { return a.mtime }
func (a *fakeArtifact) Produce() ([]byte, error) {
	return a.data, nil
}
func (a *fakeArtifact) Leaves() []ports.Artifact { return a.leaves }
func (a *fakeArtifact) RefName() string          { return a.ref }

// fakeRegistry is an in-memory ports.AssetRegistry.
type fakeRegistry struct {
	names      []string
	formulas   map[string]*domain.Formula
	artifacts  map[string]*fakeArtifact
	debug      bool
	resolveErr map[string]error
	reloads    int
	reloadErr  error
}

func newFakeRegistry(debug bool) *fakeRegistry {
	return &fakeRegistry{
		formulas:   make(map[string]*domain.Formula),
		artifacts:  make(map[string]*fakeArtifact),
		resolveErr: make(map[string]error),
		debug:      debug,
	}
}

func (r *fakeRegistry) add(name string, f *domain.Formula, a *fakeArtifact) {
	r.names = append(r.names, name)
	r.formulas[name] = f
	r.artifacts[name] = a
}

func (r *fakeRegistry) Names() []string { return r.names }

func (r *fakeRegistry) HasFormula(name string) bool { return r.formulas[name] != nil }

func (r *fakeRegistry) Formula(name string) *domain.Formula { return r.formulas[name] }

func (r *fakeRegistry) Resolve(name string) (ports.Artifact, error) {
	if err := r.resolveErr[name]; err != nil {
		return nil, err
	}
	a, ok := r.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("unknown asset %q", name)
	}
	return a, nil
}

func (r *fakeRegistry) DebugMode() bool { return r.debug }

func (r *fakeRegistry) ForceReload() error {
	r.reloads++
	return r.reloadErr
}

func (r *fakeRegistry) WatchDirs() []string { return nil }

// recordingWriter captures write targets and can fail on demand.
type recordingWriter struct {
	targets []string
	failOn  string
}

var errWriteFailed = errors.New("write failed")

func (w *recordingWriter) Write(a ports.Artifact) error {
	if w.failOn != "" && a.TargetPath() == w.failOn {
		return errWriteFailed
	}
	w.targets = append(w.targets, a.TargetPath())
	return nil
}

// recordingStore captures saved snapshots.
type recordingStore struct {
	loaded domain.Snapshot
	saves  int
	err    error
}

func (s *recordingStore) Load() (domain.Snapshot, error) {
	if s.loaded == nil {
		return domain.NewSnapshot(), nil
	}
	return s.loaded, nil
}

func (s *recordingStore) Save(domain.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	return nil
}
