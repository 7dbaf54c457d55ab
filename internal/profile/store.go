package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/secret"
)

// Document is the persisted form: custom profiles only.
type Document struct {
	Profiles        []Profile `json:"profiles"`
	ActiveProfileID string    `json:"activeProfileId,omitempty"`
}

// Store is an interface for persisting the profile document.
type Store interface {
	Load() (*Document, error)
	Save(*Document) error
}

// --- JSON file store ---

// JSONStore persists the profile document to a JSON file.
type JSONStore struct {
	path    string
	secrets secret.Store
	log     *slog.Logger
}

// JSONOption configures a JSONStore.
type JSONOption func(*JSONStore)

// WithSecrets keeps private keys in s and writes references to the file.
func WithSecrets(s secret.Store) JSONOption {
	return func(js *JSONStore) {
		js.secrets = s
	}
}

// WithStoreLogger sets the logger for non-fatal secret lookups.
func WithStoreLogger(l *slog.Logger) JSONOption {
	return func(js *JSONStore) {
		js.log = l
	}
}

// NewJSONStore creates a JSON-backed profile store at path.
func NewJSONStore(path string, opts ...JSONOption) *JSONStore {
	js := &JSONStore{path: path, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(js)
	}
	return js
}

// Load reads the document. A missing file is an empty document.
func (s *JSONStore) Load() (*Document, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if s.secrets != nil {
		s.resolveSecrets(doc)
	}
	return doc, nil
}

// read parses the file as stored, leaving keychain references unresolved.
func (s *JSONStore) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return &doc, nil
}

// Save writes the whole document, replacing prior content. The file is
// written next to the target and renamed into place.
func (s *JSONStore) Save(doc *Document) error {
	out := Document{
		Profiles:        make([]Profile, len(doc.Profiles)),
		ActiveProfileID: doc.ActiveProfileID,
	}
	copy(out.Profiles, doc.Profiles)

	var prev map[string]string
	if s.secrets != nil {
		prev = s.storedRefs()
		if err := s.storeSecrets(&out, prev); err != nil {
			return err
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("writing profiles: %w", err)
	}

	if s.secrets != nil {
		s.pruneSecrets(&out, prev)
	}
	return nil
}

// storedRefs maps profile id to keychain ref for the document currently on
// disk. An unreadable document yields no refs.
func (s *JSONStore) storedRefs() map[string]string {
	refs := make(map[string]string)
	cur, err := s.read()
	if err != nil {
		s.log.Warn("reading stored key references", "error", err)
		return refs
	}
	for _, p := range cur.Profiles {
		if ref, ok := secret.IsRef(p.AdminPrivateKey); ok {
			refs[p.ID] = ref
		}
	}
	return refs
}

// resolveSecrets replaces references with stored keys. A key the keychain
// cannot return loads as empty; its reference stays on disk and Save
// writes it back.
func (s *JSONStore) resolveSecrets(doc *Document) {
	for i := range doc.Profiles {
		p := &doc.Profiles[i]
		ref, ok := secret.IsRef(p.AdminPrivateKey)
		if !ok {
			continue
		}
		key, err := s.secrets.Get(ref)
		if err != nil {
			s.log.Warn("private key unavailable", "profile", p.ID, "ref", ref, "error", err)
			p.AdminPrivateKey = ""
			continue
		}
		p.AdminPrivateKey = key
	}
}

func (s *JSONStore) storeSecrets(doc *Document, prev map[string]string) error {
	for i := range doc.Profiles {
		p := &doc.Profiles[i]
		if p.AdminPrivateKey == "" {
			if ref, ok := prev[p.ID]; ok {
				p.AdminPrivateKey = secret.RefPrefix + ref
			}
			continue
		}
		if _, ok := secret.IsRef(p.AdminPrivateKey); ok {
			continue
		}
		ref := secret.Ref(p.ID)
		if err := s.secrets.Set(ref, p.AdminPrivateKey); err != nil {
			return fmt.Errorf("storing key for %s: %w", p.ID, err)
		}
		p.AdminPrivateKey = secret.RefPrefix + ref
	}
	return nil
}

// pruneSecrets drops keys of profiles that were in the previous document
// and are gone from doc. Keys this document never referenced are left
// alone, so stores under other data dirs sharing the keychain keep theirs.
// Failures only leave orphaned keychain entries, so they are logged.
func (s *JSONStore) pruneSecrets(doc *Document, prev map[string]string) {
	live := make(map[string]bool, len(doc.Profiles))
	for _, p := range doc.Profiles {
		if ref, ok := secret.IsRef(p.AdminPrivateKey); ok {
			live[ref] = true
		}
	}
	for _, ref := range prev {
		if live[ref] {
			continue
		}
		if err := s.secrets.Remove(ref); err != nil {
			s.log.Warn("removing stored key", "ref", ref, "error", err)
		}
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}

// --- in-memory store ---

// MemStore keeps the document in memory (useful for tests).
type MemStore struct {
	mu  sync.Mutex
	doc *Document
	err error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// FailSaves makes every later Save return err.
func (m *MemStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemStore) Load() (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return &Document{}, nil
	}
	return cloneDocument(m.doc), nil
}

func (m *MemStore) Save(doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.doc = cloneDocument(doc)
	return nil
}

func cloneDocument(doc *Document) *Document {
	out := &Document{
		Profiles:        make([]Profile, 0, len(doc.Profiles)),
		ActiveProfileID: doc.ActiveProfileID,
	}
	for _, p := range doc.Profiles {
		out.Profiles = append(out.Profiles, p.Clone())
	}
	return out
}
