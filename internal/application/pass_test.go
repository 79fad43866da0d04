package application

import (
	"errors"
	"testing"
	"time"

	"assetdump/internal/domain"
)

func newPass(reg *fakeRegistry, writer *recordingWriter, store *recordingStore) *Pass {
	p := &Pass{
		Registry:  reg,
		Engine:    &DumpEngine{Registry: reg, Writer: writer},
		DumpMains: true,
	}
	if store != nil {
		// Assigning a typed nil pointer directly would make the interface
		// field non-nil and defeat the "nil skips persistence" contract.
		p.Store = store
	}
	return p
}

func TestPass_IdempotentRedumpAvoidance(t *testing.T) {
	reg := newFakeRegistry(true)
	bundleFixture(reg, nil)
	writer := &recordingWriter{}
	pass := newPass(reg, writer, nil)
	snap := domain.NewSnapshot()

	n, err := pass.Run(snap)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if n != 3 {
		t.Fatalf("first pass writes = %d, want 3", n)
	}

	// Nothing changed: the second pass must not touch the filesystem.
	n, err = pass.Run(snap)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if n != 0 {
		t.Errorf("second pass writes = %d, want 0", n)
	}
}

func TestPass_FingerprintEditTriggersRedump(t *testing.T) {
	reg := newFakeRegistry(true)
	bundleFixture(reg, nil)
	writer := &recordingWriter{}
	pass := newPass(reg, writer, nil)
	snap := domain.NewSnapshot()

	if _, err := pass.Run(snap); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Same mod times, edited recipe: the main must be re-dumped.
	reg.formulas["app.js"] = &domain.Formula{Inputs: []string{"a.js", "b.js"}, Filters: []string{"strip-blank-lines"}}
	n, err := pass.Run(snap)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if n != 1 {
		t.Errorf("second pass writes = %d, want 1 (main re-dumped, leaves unchanged)", n)
	}
}

func TestPass_ReloadInvariant(t *testing.T) {
	reg := newFakeRegistry(true)
	bundleFixture(reg, nil)
	pass := newPass(reg, &recordingWriter{}, nil)
	snap := domain.NewSnapshot()

	for i := 1; i <= 3; i++ {
		if _, err := pass.Run(snap); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		if reg.reloads != i {
			t.Fatalf("after pass %d: reloads = %d, want %d", i, reg.reloads, i)
		}
	}
}

func TestPass_PersistsSnapshot(t *testing.T) {
	reg := newFakeRegistry(true)
	bundleFixture(reg, nil)
	store := &recordingStore{}
	pass := newPass(reg, &recordingWriter{}, store)

	if _, err := pass.Run(domain.NewSnapshot()); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("snapshot saves = %d, want 1", store.saves)
	}
}

func TestPass_ResolutionErrorAbortsRemainder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := newFakeRegistry(true)
	reg.add("a.css", nil, &fakeArtifact{target: "dist/a.css", mtime: base})
	reg.add("broken.js", nil, nil)
	reg.resolveErr["broken.js"] = errors.New("malformed formula")
	reg.add("z.css", nil, &fakeArtifact{target: "dist/z.css", mtime: base})
	writer := &recordingWriter{}
	pass := newPass(reg, writer, nil)

	_, err := pass.Run(domain.NewSnapshot())
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v, want *ResolutionError", err)
	}

	// Partial progress is preserved; names after the failure are skipped.
	if len(writer.targets) != 1 || writer.targets[0] != "dist/a.css" {
		t.Errorf("targets = %v, want [dist/a.css]", writer.targets)
	}
	if reg.reloads != 0 {
		t.Errorf("reloads = %d, want 0 (failure before the reset step)", reg.reloads)
	}
}

func TestPass_WriteErrorPreservesSnapshotEntries(t *testing.T) {
	reg := newFakeRegistry(true)
	bundleFixture(reg, nil)
	writer := &recordingWriter{failOn: "dist/b.js"}
	pass := newPass(reg, writer, nil)
	snap := domain.NewSnapshot()

	if _, err := pass.Run(snap); !errors.Is(err, errWriteFailed) {
		t.Fatalf("error = %v, want errWriteFailed", err)
	}

	// a.js got written and its snapshot entry stays; no rollback.
	if _, ok := snap[domain.LeafKey("dist/a.js")]; !ok {
		t.Error("snapshot entry for written leaf was not preserved")
	}
}
