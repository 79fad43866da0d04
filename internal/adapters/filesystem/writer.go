// Package filesystem materializes resolved artifacts onto disk.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"assetdump/internal/ports"
)

// Writer writes artifact bytes to their target paths, creating parent
// directories as needed. Existing files are overwritten unconditionally; the
// change gate lives upstream in the snapshot, not here.
type Writer struct {
	verbose bool
}

// Ensure Writer implements ArtifactWriter
var _ ports.ArtifactWriter = (*Writer)(nil)

// NewWriter creates a writer. In verbose mode each write also logs the
// artifact's resolved source location.
func NewWriter(verbose bool) *Writer {
	return &Writer{verbose: verbose}
}

// Write produces the artifact's bytes and writes them to its target path.
func (w *Writer) Write(a ports.Artifact) error {
	target := a.TargetPath()
	dir := filepath.Dir(target)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
		logrus.Infof("created directory %s", dir)
	}

	data, err := a.Produce()
	if err != nil {
		return fmt.Errorf("producing %s: %w", target, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}

	logrus.Infof("wrote %s", target)
	if w.verbose {
		root := a.SourceRoot()
		if root == "" {
			root = "[unknown root]"
		}
		src := a.SourcePath()
		if src == "" {
			src = "[unknown path]"
		}
		logrus.Debugf("  source: %s :: %s", root, src)
	}
	return nil
}
