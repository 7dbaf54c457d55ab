package profile

import (
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
)

// Synthesize builds the read-only default profile from an environment
// snapshot. Missing values are data, not errors: they read "Not configured".
func Synthesize(env config.DefaultProfileEnv, now time.Time) Profile {
	return Profile{
		ID:              DefaultID,
		Name:            DefaultName,
		Description:     "Configuration from environment variables",
		AdminAddress:    orNotConfigured(env.AdminAddress),
		AdminPrivateKey: orNotConfigured(env.AdminPrivateKey),
		RPCURL:          orNotConfigured(env.RPCURL),
		ToriiURL:        orNotConfigured(env.ToriiURL),
		WorldAddress:    orNotConfigured(env.WorldAddress),
		Contracts: map[string]string{
			ContractGame:                 orNotConfigured(env.GameContract),
			ContractPlayerProfileActions: orNotConfigured(env.PlayerProfileActions),
			ContractTutorial:             orNotConfigured(env.TutorialContract),
			ContractAccountMigration:     orNotConfigured(env.AccountMigration),
		},
		IsDefault:  true,
		IsReadOnly: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func orNotConfigured(v string) string {
	if v == "" {
		return NotConfigured
	}
	return v
}
