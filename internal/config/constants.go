package config

import "time"

const (
	// ProfilesFile is the document holding custom profiles, relative to DataDir.
	ProfilesFile = "profiles.json"

	// MaxRequestBody caps admin API request bodies.
	MaxRequestBody = 1 << 20
)

// Timeout constants used by the API and CLI probes.
const (
	RPCProbeTimeout = 5 * time.Second // single RPC health probe
)
