package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// SeedProfiles copies a fixture profile document into a fresh data directory
// as profiles.json and returns the directory.
func SeedProfiles(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixturesDir(), "profiles", filename))
	require.NoError(t, err, "failed to load fixture profiles: %s", filename)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.json"), data, 0o600))
	return dir
}

// LoadRPCResponses loads a fixture map of JSON-RPC method to result.
func LoadRPCResponses(t *testing.T, filename string) map[string]json.RawMessage {
	t.Helper()
	path := filepath.Join(fixturesDir(), "rpc", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture RPC response: %s", filename)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}
