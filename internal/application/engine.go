package application

import (
	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// DumpEngine materializes one named asset: its main output and, in debug
// mode, each of its constituent leaves. The engine shares one snapshot
// instance with the rest of the pass so leaf decisions accumulate alongside
// main decisions.
type DumpEngine struct {
	Registry ports.AssetRegistry
	Writer   ports.ArtifactWriter
}

// ProcessAsset dumps the named asset and returns the number of writes
// performed. Leaves are gated individually through the snapshot; the main is
// written unconditionally when dumpMain is set, because the caller has
// already evaluated the main's change gate before invoking the engine.
func (e *DumpEngine) ProcessAsset(name string, snap domain.Snapshot, dumpMain bool) (int, error) {
	artifact, err := e.Registry.Resolve(name)
	if err != nil {
		return 0, &ResolutionError{Name: name, Err: err}
	}

	writes := 0
	if e.effectiveDebug(name) {
		for _, leaf := range artifact.Leaves() {
			resolved := leaf
			if ref := leaf.RefName(); ref != "" {
				resolved, err = e.Registry.Resolve(ref)
				if err != nil {
					return writes, &ResolutionError{Name: ref, Err: err}
				}
			}
			key := domain.LeafKey(resolved.TargetPath())
			// Leaves carry no fingerprint of their own; only the
			// mod time participates in their accounting.
			sig := domain.Signature{ModTime: resolved.LastModified()}
			if snap.HasChanged(key, sig) {
				if err := e.Writer.Write(resolved); err != nil {
					return writes, err
				}
				writes++
			}
		}
	}

	if dumpMain {
		if err := e.Writer.Write(artifact); err != nil {
			return writes, err
		}
		writes++
	}
	return writes, nil
}

// effectiveDebug resolves the debug mode for one asset: an explicit debug
// flag in the formula overrides the registry's global flag.
func (e *DumpEngine) effectiveDebug(name string) bool {
	if f := e.Registry.Formula(name); f != nil && f.Debug != nil {
		return *f.Debug
	}
	return e.Registry.DebugMode()
}
