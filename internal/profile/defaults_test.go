package profile_test

import (
	"testing"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/stretchr/testify/assert"
)

func TestSynthesizeFromEnv(t *testing.T) {
	p := profile.Synthesize(testEnv(), fixedNow)

	assert.Equal(t, profile.DefaultID, p.ID)
	assert.Equal(t, profile.DefaultName, p.Name)
	assert.True(t, p.IsDefault)
	assert.True(t, p.IsReadOnly)
	assert.Equal(t, "0xenvaddr", p.AdminAddress)
	assert.Equal(t, "0xenvkey", p.AdminPrivateKey)
	assert.Equal(t, "http://localhost:5050", p.RPCURL)
	assert.Equal(t, "0xgame", p.Contracts[profile.ContractGame])
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, fixedNow, p.UpdatedAt)
}

func TestSynthesizeMissingValuesAreNotConfigured(t *testing.T) {
	p := profile.Synthesize(config.DefaultProfileEnv{}, fixedNow)

	assert.Equal(t, profile.NotConfigured, p.AdminAddress)
	assert.Equal(t, profile.NotConfigured, p.AdminPrivateKey)
	assert.Equal(t, profile.NotConfigured, p.RPCURL)
	assert.Equal(t, profile.NotConfigured, p.ToriiURL)
	assert.Equal(t, profile.NotConfigured, p.WorldAddress)
	for _, key := range profile.ContractKeys {
		assert.Equal(t, profile.NotConfigured, p.Contracts[key], key)
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	a := profile.Synthesize(testEnv(), fixedNow)
	b := profile.Synthesize(testEnv(), fixedNow)
	assert.Equal(t, a, b)
}

func TestRedactKeepsDefaultKey(t *testing.T) {
	def := profile.Synthesize(testEnv(), fixedNow)
	assert.Equal(t, "0xenvkey", def.Redact().AdminPrivateKey)

	custom := profile.Profile{ID: "x", AdminPrivateKey: "0xsecret"}
	assert.Equal(t, profile.Redacted, custom.Redact().AdminPrivateKey)
	assert.Equal(t, "0xsecret", custom.AdminPrivateKey, "Redact must not mutate the receiver")
}
