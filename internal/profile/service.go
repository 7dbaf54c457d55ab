package profile

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service handles profile CRUD and active-profile bookkeeping. Every
// operation reloads the set from the repository; mutations are serialized.
type Service struct {
	repo  *Repository
	log   *slog.Logger
	now   func() time.Time
	newID func() string

	mu sync.Mutex // held across load → mutate → save
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides profile id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService creates a profile service over repo.
func NewService(repo *Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		log:   slog.New(slog.DiscardHandler),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every profile, default first, plus the active profile.
// Private keys are redacted except on the default profile.
func (s *Service) List() Listing {
	set := s.repo.Load()

	out := Listing{Profiles: make([]Profile, 0, len(set.Profiles))}
	for _, p := range set.Profiles {
		out.Profiles = append(out.Profiles, p.Redact())
	}
	if active, ok := set.Find(set.ActiveProfileID); ok {
		r := active.Redact()
		out.ActiveProfile = &r
	}
	return out
}

// Get returns the full, unredacted profile with id.
func (s *Service) Get(id string) (Profile, error) {
	set := s.repo.Load()
	p, ok := set.Find(id)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Active returns the unredacted active profile. Outbound callers build
// their RPC and Torii clients from it.
func (s *Service) Active() Profile {
	set := s.repo.Load()
	if p, ok := set.Find(set.ActiveProfileID); ok {
		return p
	}
	return set.Profiles[0]
}

// Create validates f and appends a new profile. The first custom profile
// becomes active.
func (s *Service) Create(f Fields) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.repo.Load()
	if err := Validate(f, set.Profiles); err != nil {
		return Profile{}, err
	}

	now := s.now()
	p := Profile{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.apply(f)
	set.Profiles = append(set.Profiles, p)

	if len(set.Custom()) == 1 {
		set.ActiveProfileID = p.ID
	}
	if err := s.repo.Save(set); err != nil {
		return Profile{}, fmt.Errorf("saving profile: %w", err)
	}

	s.log.Info("profile created", "id", p.ID, "name", p.Name, "active", set.ActiveProfileID == p.ID)
	return p.Redact(), nil
}

// Update replaces every caller-editable field of profile id. A private key
// equal to the redaction sentinel keeps the stored key.
func (s *Service) Update(id string, f Fields) (Profile, error) {
	if id == DefaultID {
		return Profile{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.repo.Load()
	i := set.Index(id)
	if i == -1 {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := set.Profiles[i]

	if f.AdminPrivateKey == Redacted {
		f.AdminPrivateKey = prev.AdminPrivateKey
	}

	others := make([]Profile, 0, len(set.Profiles)-1)
	others = append(others, set.Profiles[:i]...)
	others = append(others, set.Profiles[i+1:]...)
	if err := Validate(f, others); err != nil {
		return Profile{}, err
	}

	next := prev
	next.apply(f)
	next.UpdatedAt = s.now()
	set.Profiles[i] = next

	if err := s.repo.Save(set); err != nil {
		return Profile{}, fmt.Errorf("saving profile: %w", err)
	}

	s.log.Info("profile updated", "id", id, "name", next.Name)
	return next.Redact(), nil
}

// Delete removes profile id. Deleting the active profile makes the default
// profile active again.
func (s *Service) Delete(id string) error {
	if id == DefaultID {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.repo.Load()
	i := set.Index(id)
	if i == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	set.Profiles = append(set.Profiles[:i], set.Profiles[i+1:]...)
	if set.ActiveProfileID == id {
		set.ActiveProfileID = DefaultID
	}

	if err := s.repo.Save(set); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	s.log.Info("profile deleted", "id", id, "active", set.ActiveProfileID)
	return nil
}

// Activate makes profile id the active profile.
func (s *Service) Activate(id string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.repo.Load()
	p, ok := set.Find(id)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if set.ActiveProfileID != id {
		set.ActiveProfileID = id
		if err := s.repo.Save(set); err != nil {
			return Profile{}, fmt.Errorf("activating profile: %w", err)
		}
		s.log.Info("active profile switched", "id", id, "name", p.Name)
	}
	return p.Redact(), nil
}

// apply copies the caller-editable fields onto p. id, createdAt and the
// default/read-only flags are untouched.
func (p *Profile) apply(f Fields) {
	p.Name = f.Name
	p.Description = f.Description
	p.AdminAddress = f.AdminAddress
	p.AdminPrivateKey = f.AdminPrivateKey
	p.RPCURL = f.RPCURL
	p.ToriiURL = f.ToriiURL
	p.WorldAddress = f.WorldAddress
	p.Contracts = make(map[string]string, len(f.Contracts))
	for k, v := range f.Contracts {
		p.Contracts[k] = v
	}
}
