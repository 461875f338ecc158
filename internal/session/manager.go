// Package session owns the single source of truth for "who is logged in":
// it resolves credential subjects to application profiles and keeps the
// advisory projection cache and the token revocation set.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type State int

const (
	StateLoading State = iota
	// Deployment still carries scaffold values. Terminal until redeployed.
	StateUnconfigured
	// Bootstrap could not reach the store. Recoverable only by restart.
	StateErrored
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnconfigured:
		return "unconfigured"
	case StateErrored:
		return "errored"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// ProfileSource is the authoritative profile lookup.
type ProfileSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
}

// ProjectionCache keeps the last-known profile projection per subject.
// Strictly advisory: it is written on every authoritative fetch and is
// never consulted to decide authentication.
type ProjectionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Profile, bool)
	Set(ctx context.Context, profile *entity.Profile)
	Del(ctx context.Context, id uuid.UUID)
}

// RevocationStore remembers signed-out token ids until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Manager struct {
	mu       sync.RWMutex
	state    State
	profiles ProfileSource
	cache    ProjectionCache
	revoked  RevocationStore
	store    Pinger
}

func New(profiles ProfileSource, cache ProjectionCache, revoked RevocationStore, store Pinger) *Manager {
	if cache == nil {
		cache = NewMemoryProjectionCache()
	}
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &Manager{
		state:    StateLoading,
		profiles: profiles,
		cache:    cache,
		revoked:  revoked,
		store:    store,
	}
}

// Initialize moves the manager out of Loading exactly once. Placeholder
// configuration wins over everything else and no connection is attempted;
// a failing store ping ends in Errored. Initialize never blocks beyond the
// given context, so startup cannot hang in Loading.
func (m *Manager) Initialize(ctx context.Context, placeholders []string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateLoading {
		return m.state
	}
	if len(placeholders) > 0 {
		slog.Error("deployment not configured", slog.Any("placeholder_keys", placeholders))
		m.state = StateUnconfigured
		return m.state
	}
	if m.store != nil {
		if err := m.store.Ping(ctx); err != nil {
			slog.Error("session bootstrap failed", slog.String("error", err.Error()))
			m.state = StateErrored
			return m.state
		}
	}
	m.state = StateReady
	return m.state
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Resolve maps a credential subject to its application profile. A subject
// without a resolvable profile is not an application user: lookup failures
// are logged and swallowed and the caller gets nil, which downstream
// routing treats as anonymous even though the credential itself is valid.
func (m *Manager) Resolve(ctx context.Context, subjectID uuid.UUID) *entity.Profile {
	profile, err := m.profiles.FindByID(ctx, subjectID)
	if err != nil {
		slog.Error("profile resolution failed, treating subject as anonymous",
			slog.String("subject", subjectID.String()),
			slog.String("error", err.Error()))
		return nil
	}
	m.cache.Set(ctx, profile)
	return profile
}

// LastKnown returns the advisory cached projection, if any. Callers must
// treat it as stale-by-definition display data.
func (m *Manager) LastKnown(ctx context.Context, subjectID uuid.UUID) (*entity.Profile, bool) {
	return m.cache.Get(ctx, subjectID)
}

// Logout clears the cached projection before anything else, so the subject
// is gone from the manager's point of view the moment this returns, no
// matter how long the revocation write takes or whether it succeeds.
func (m *Manager) Logout(ctx context.Context, subjectID uuid.UUID, tokenID string, expiresAt time.Time) {
	m.cache.Del(ctx, subjectID)
	if tokenID == "" {
		return
	}
	if err := m.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		slog.Error("token revocation write failed", slog.String("error", err.Error()))
	}
}

// IsRevoked reports whether a token id was signed out. Store errors are
// logged and the token treated as live: revocation is best effort on top
// of the token's own expiry.
func (m *Manager) IsRevoked(ctx context.Context, tokenID string) bool {
	revoked, err := m.revoked.IsRevoked(ctx, tokenID)
	if err != nil {
		slog.Error("revocation lookup failed", slog.String("error", err.Error()))
		return false
	}
	return revoked
}
