package config

import "os"

const DefaultManifestPath = "assets.yaml"

// ManifestPath returns the manifest path from ASSETDUMP_MANIFEST env var,
// falling back to DefaultManifestPath.
func ManifestPath() string {
	if env := os.Getenv("ASSETDUMP_MANIFEST"); env != "" {
		return env
	}
	return DefaultManifestPath
}

// OutputRoot returns the output root from ASSETDUMP_OUTPUT env var,
// falling back to empty (the manifest's declared output root applies).
func OutputRoot() string {
	return os.Getenv("ASSETDUMP_OUTPUT")
}
