// Package profile manages named connection profiles for the game world and
// tracks which one is active.
//
// The persisted document holds only custom profiles. The default profile is
// a computed view, synthesized from the process environment and prepended on
// every load.
package profile

import (
	"slices"
	"time"
)

const (
	// DefaultID is the id of the synthesized, read-only profile.
	DefaultID = "default"

	// DefaultName is the display name of the default profile.
	DefaultName = "Default"

	// Redacted replaces private keys in responses.
	Redacted = "********"

	// NotConfigured stands in for unset environment variables.
	NotConfigured = "Not configured"
)

// Known contract keys, in validation order.
const (
	ContractGame                 = "gameContract"
	ContractPlayerProfileActions = "playerProfileActions"
	ContractTutorial             = "tutorialContract"
	ContractAccountMigration     = "accountMigration"
)

// ContractKeys lists the known contract keys.
var ContractKeys = []string{
	ContractGame,
	ContractPlayerProfileActions,
	ContractTutorial,
	ContractAccountMigration,
}

// Profile is a named bundle of endpoints, contract addresses and credentials.
type Profile struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	AdminAddress    string            `json:"adminAddress"`
	AdminPrivateKey string            `json:"adminPrivateKey"`
	RPCURL          string            `json:"rpcUrl"`
	ToriiURL        string            `json:"toriiUrl"`
	WorldAddress    string            `json:"worldAddress"`
	Contracts       map[string]string `json:"contracts"`
	IsDefault       bool              `json:"isDefault"`
	IsReadOnly      bool              `json:"isReadOnly"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Fields is the caller-supplied part of a profile for Create and Update.
// Updates replace every field; partial updates are not supported.
type Fields struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	AdminAddress    string            `json:"adminAddress"`
	AdminPrivateKey string            `json:"adminPrivateKey"`
	RPCURL          string            `json:"rpcUrl"`
	ToriiURL        string            `json:"toriiUrl"`
	WorldAddress    string            `json:"worldAddress"`
	Contracts       map[string]string `json:"contracts"`
}

// Set is the loaded aggregate: default profile first, then custom profiles
// in insertion order.
type Set struct {
	Profiles        []Profile
	ActiveProfileID string
}

// Listing is the result of Service.List.
type Listing struct {
	Profiles      []Profile `json:"profiles"`
	ActiveProfile *Profile  `json:"activeProfile"`
}

// Redact returns a copy with the private key masked. The default profile is
// returned as is.
func (p Profile) Redact() Profile {
	if p.IsDefault {
		return p
	}
	p.AdminPrivateKey = Redacted
	return p
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p.Contracts != nil {
		c := make(map[string]string, len(p.Contracts))
		for k, v := range p.Contracts {
			c[k] = v
		}
		p.Contracts = c
	}
	return p
}

// Index returns the position of id in the set, or -1.
func (s *Set) Index(id string) int {
	return slices.IndexFunc(s.Profiles, func(p Profile) bool { return p.ID == id })
}

// Find returns the profile with id.
func (s *Set) Find(id string) (Profile, bool) {
	i := s.Index(id)
	if i == -1 {
		return Profile{}, false
	}
	return s.Profiles[i], true
}

// Custom returns the profiles that are not the default.
func (s *Set) Custom() []Profile {
	out := make([]Profile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		if p.ID != DefaultID {
			out = append(out, p)
		}
	}
	return out
}
