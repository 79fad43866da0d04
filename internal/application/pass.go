package application

import (
	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// Pass runs one full change-detection sweep over every known asset name
// against a shared snapshot: dump what changed, force the registry to reload
// its definitions, persist the snapshot.
type Pass struct {
	Registry  ports.AssetRegistry
	Engine    *DumpEngine
	Store     ports.SnapshotStore // nil skips persistence
	DumpMains bool
}

// Run performs one pass and returns the number of writes. A failure aborts
// the remainder of the pass; partial progress (writes already made, snapshot
// entries already updated) is preserved, never rolled back.
func (p *Pass) Run(snap domain.Snapshot) (int, error) {
	writes := 0
	for _, name := range p.Registry.Names() {
		sig, err := p.signatureFor(name)
		if err != nil {
			return writes, err
		}
		if snap.HasChanged(domain.MainKey(name), sig) {
			n, err := p.Engine.ProcessAsset(name, snap, p.DumpMains)
			writes += n
			if err != nil {
				return writes, err
			}
		}
	}

	// Recipe edits are only observed if the registry forgets its cached
	// artifacts between passes. This reset is a correctness requirement,
	// not an optimization.
	if err := p.Registry.ForceReload(); err != nil {
		return writes, err
	}

	if p.Store != nil {
		if err := p.Store.Save(snap); err != nil {
			return writes, err
		}
	}
	return writes, nil
}

// signatureFor observes the current modification signature of a named main
// asset: the resolved artifact's mod time plus the formula fingerprint, or
// NoFingerprint when the asset has no formula.
func (p *Pass) signatureFor(name string) (domain.Signature, error) {
	artifact, err := p.Registry.Resolve(name)
	if err != nil {
		return domain.Signature{}, &ResolutionError{Name: name, Err: err}
	}
	return domain.Signature{
		ModTime:     artifact.LastModified(),
		Fingerprint: p.Registry.Formula(name).Fingerprint(),
	}, nil
}
