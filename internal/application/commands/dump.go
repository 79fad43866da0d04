package commands

import (
	"assetdump/internal/application"
	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// DumpCommand materializes every known asset once. It is the degenerate
// "always changed" case of the watch pass: every name is processed against a
// fresh snapshot, nothing is persisted, and the first error terminates the
// run (no pass-level error boundary).
type DumpCommand struct {
	Registry  ports.AssetRegistry
	Writer    ports.ArtifactWriter
	DumpMains bool
}

// NewDumpCommand creates a one-shot dump over the given registry.
func NewDumpCommand(registry ports.AssetRegistry, writer ports.ArtifactWriter, dumpMains bool) *DumpCommand {
	return &DumpCommand{
		Registry:  registry,
		Writer:    writer,
		DumpMains: dumpMains,
	}
}

// Validate checks if the dump can run
func (c *DumpCommand) Validate() error {
	if c.Registry == nil {
		return application.ErrNoRegistry
	}
	if c.Writer == nil {
		return application.ErrNoWriter
	}
	return nil
}

// Execute processes all asset names and returns the number of writes.
func (c *DumpCommand) Execute() (int, error) {
	engine := &application.DumpEngine{Registry: c.Registry, Writer: c.Writer}
	snap := domain.NewSnapshot()

	total := 0
	for _, name := range c.Registry.Names() {
		n, err := engine.ProcessAsset(name, snap, c.DumpMains)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
