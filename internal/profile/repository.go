package profile

import (
	"log/slog"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
)

// EnvFunc returns the current default-profile environment snapshot.
type EnvFunc func() config.DefaultProfileEnv

// StaticEnv returns an EnvFunc that always yields e.
func StaticEnv(e config.DefaultProfileEnv) EnvFunc {
	return func() config.DefaultProfileEnv { return e }
}

// Repository merges the persisted document with the synthesized default
// profile.
type Repository struct {
	store Store
	env   EnvFunc
	log   *slog.Logger
}

// NewRepository creates a repository over store. env is called on every
// Load to synthesize the default profile.
func NewRepository(store Store, env EnvFunc, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{store: store, env: env, log: log}
}

// Load returns the profile set. It never fails: an unreadable document is
// logged and treated as empty. Persisted entries claiming the default id are
// dropped and replaced by a freshly synthesized default profile.
func (r *Repository) Load() Set {
	doc, err := r.store.Load()
	if err != nil {
		r.log.Warn("profile store unreadable, starting empty", "error", err)
		doc = &Document{}
	}

	set := Set{
		Profiles:        make([]Profile, 0, len(doc.Profiles)+1),
		ActiveProfileID: doc.ActiveProfileID,
	}
	set.Profiles = append(set.Profiles, Synthesize(r.env(), time.Now().UTC()))
	for _, p := range doc.Profiles {
		if p.ID == DefaultID {
			continue
		}
		p.IsDefault = false
		p.IsReadOnly = false
		set.Profiles = append(set.Profiles, p)
	}

	if set.ActiveProfileID == "" || set.Index(set.ActiveProfileID) == -1 {
		set.ActiveProfileID = DefaultID
	}
	return set
}

// Save persists the custom profiles and the active id. The default profile
// is never written.
func (r *Repository) Save(set Set) error {
	return r.store.Save(&Document{
		Profiles:        set.Custom(),
		ActiveProfileID: set.ActiveProfileID,
	})
}
