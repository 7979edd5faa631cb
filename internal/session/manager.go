// Package session holds the client's single authentication session: the
// persisted credential, the identity decoded from it, and the role predicates
// used by route guards.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/auth"
	"github.com/spec-kit/directory-client/internal/domain"
	"github.com/spec-kit/directory-client/internal/events"
	"github.com/spec-kit/directory-client/internal/persistence"
)

// DefaultTokenKey is the store key holding the credential.
const DefaultTokenKey = "token"

// Snapshot is an immutable view of the session. Identity is non-nil exactly
// when Credential holds a well-formed credential.
type Snapshot struct {
	Credential string
	Identity   *domain.Identity
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// HasRole reports whether the snapshot's identity has role.
func (s Snapshot) HasRole(role domain.Role) bool {
	return s.Identity != nil && s.Identity.Role == role
}

// Manager owns the session state and its persisted credential.
type Manager struct {
	mu       sync.RWMutex
	state    Snapshot
	store    persistence.Store
	tokenKey string
	logger   *zap.Logger
	events   events.Dispatcher
}

// Options configures a Manager. Store is required.
type Options struct {
	Store      persistence.Store
	TokenKey   string
	Logger     *zap.Logger
	Dispatcher events.Dispatcher
}

// NewManager constructs an anonymous manager. Call Hydrate to restore a
// persisted session.
func NewManager(opts Options) *Manager {
	if opts.TokenKey == "" {
		opts.TokenKey = DefaultTokenKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		store:    opts.Store,
		tokenKey: opts.TokenKey,
		logger:   opts.Logger,
		events:   opts.Dispatcher,
	}
}

// Hydrate restores the session from the store. A missing or unreadable entry
// leaves the session anonymous; a credential that does not decode is wiped.
func (m *Manager) Hydrate(ctx context.Context) Snapshot {
	credential, err := m.store.Get(ctx, m.tokenKey)
	credential = strings.TrimSpace(credential)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			m.logger.Warn("credential store unreadable, continuing anonymous", zap.Error(err))
		}
		m.replace(Snapshot{})
		return Snapshot{}
	}
	if credential == "" {
		m.replace(Snapshot{})
		return Snapshot{}
	}

	identity, err := auth.DecodeIdentity(credential)
	if err != nil {
		m.logger.Warn("discarding persisted credential", zap.Error(err))
		m.discard(ctx, events.SourceHydrate, err)
		return Snapshot{}
	}

	next := Snapshot{Credential: credential, Identity: &identity}
	m.replace(next)
	m.publish(ctx, events.NewEvent(events.EventSessionEstablished, events.SourceHydrate,
		events.SessionEstablishedPayload{Identity: identity}))
	return next
}

// Login persists credential and replaces the session. A credential that does
// not decode leaves the session anonymous with the store cleared; it is logged,
// not returned.
func (m *Manager) Login(ctx context.Context, credential string) Snapshot {
	credential = strings.TrimSpace(credential)
	identity, err := auth.DecodeIdentity(credential)
	if err != nil {
		m.logger.Error("issued credential could not be decoded", zap.Error(err))
		m.discard(ctx, events.SourceLogin, err)
		return Snapshot{}
	}

	if err := m.store.Set(ctx, m.tokenKey, credential); err != nil {
		m.logger.Warn("credential not persisted, session will not survive restart", zap.Error(err))
	}

	next := Snapshot{Credential: credential, Identity: &identity}
	m.replace(next)
	m.logger.Debug("session established",
		zap.String("user_id", identity.ID.String()),
		zap.String("role", identity.Role.String()))
	m.publish(ctx, events.NewEvent(events.EventSessionEstablished, events.SourceLogin,
		events.SessionEstablishedPayload{Identity: identity}))
	return next
}

// Logout clears the persisted credential and the in-memory session. Calling
// it on an anonymous session is a no-op apart from the store delete.
func (m *Manager) Logout(ctx context.Context) {
	m.logout(ctx, events.SourceLogout)
}

// ExpireSession logs out after the API rejected the credential.
func (m *Manager) ExpireSession(ctx context.Context) {
	m.logout(ctx, events.SourceUnauthorized)
}

func (m *Manager) logout(ctx context.Context, source events.Source) {
	m.clearStore(ctx)
	prev := m.replace(Snapshot{})
	if prev.Identity != nil {
		m.publish(ctx, events.NewEvent(events.EventSessionCleared, source,
			events.SessionClearedPayload{PreviousRole: prev.Identity.Role}))
	}
}

func (m *Manager) discard(ctx context.Context, source events.Source, cause error) {
	m.clearStore(ctx)
	m.replace(Snapshot{})
	m.publish(ctx, events.NewEvent(events.EventCredentialDiscarded, source,
		events.CredentialDiscardedPayload{Reason: cause.Error()}))
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Delete(ctx, m.tokenKey); err != nil {
		m.logger.Warn("failed to clear persisted credential", zap.Error(err))
	}
}

// replace swaps the state wholesale and returns the previous snapshot.
func (m *Manager) replace(next Snapshot) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = next
	return prev
}

func (m *Manager) publish(ctx context.Context, event events.Event) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, event); err != nil {
		m.logger.Warn("session event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	snap := m.state
	m.mu.RUnlock()
	if snap.Identity != nil {
		identity := *snap.Identity
		if identity.ExpiresAt != nil {
			exp := *identity.ExpiresAt
			identity.ExpiresAt = &exp
		}
		snap.Identity = &identity
	}
	return snap
}

// Principal adapts the current snapshot for route guards.
func (m *Manager) Principal() auth.Principal {
	snap := m.Snapshot()
	return auth.Principal{Credential: snap.Credential, Identity: snap.Identity}
}

// Identity returns the current identity, if any.
func (m *Manager) Identity() (domain.Identity, bool) {
	snap := m.Snapshot()
	if snap.Identity == nil {
		return domain.Identity{}, false
	}
	return *snap.Identity, true
}

// Credential returns the bearer credential of the current session.
func (m *Manager) Credential() (string, bool) {
	snap := m.Snapshot()
	if snap.Identity == nil {
		return "", false
	}
	return snap.Credential, true
}

// Authenticated reports whether a session exists.
func (m *Manager) Authenticated() bool {
	return m.Snapshot().Authenticated()
}

// HasRole is false when no session exists.
func (m *Manager) HasRole(role domain.Role) bool {
	return m.Snapshot().HasRole(role)
}

func (m *Manager) IsAdmin() bool      { return m.HasRole(domain.RoleAdmin) }
func (m *Manager) IsAdvertiser() bool { return m.HasRole(domain.RoleAdvertiser) }
func (m *Manager) IsConsumer() bool   { return m.HasRole(domain.RoleConsumer) }
