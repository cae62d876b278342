// ABOUTME: Session context: authenticated identity, role predicates, auth lifecycle
// ABOUTME: Single owner of the persisted credential alongside the gateway 401 handler

// Package session owns the client's view of "who is logged in". One
// Manager is constructed at process start and handed to every consumer;
// there are no module-level singletons. Consumers read the identity and
// the derived role predicates, and subscribe to auth-state transitions.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/credential"
)

// Manager holds the session state. All methods are safe for concurrent
// use; state updates are applied atomically under one lock.
type Manager struct {
	mu       sync.RWMutex
	identity *api.User
	loading  bool

	identityAPI *api.Identity
	creds       *credential.Store
	logger      *slog.Logger

	subMu       sync.Mutex
	subscribers map[string]chan bool // subID -> authenticated
}

// NewManager creates a session manager. The manager starts in the loading
// state; callers run Bootstrap once to attempt the silent restore. Pass
// nil logger for default.
func NewManager(identityAPI *api.Identity, creds *credential.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		loading:     true,
		identityAPI: identityAPI,
		creds:       creds,
		logger:      logger.With("component", "session"),
		subscribers: make(map[string]chan bool),
	}
}

// Bootstrap attempts the silent session restore from the persisted
// credential. With no credential, or one whose expiry has already passed
// locally, it resolves immediately to unauthenticated without touching
// the network. Loading is true for exactly the duration of this attempt.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, ok := m.creds.Load()
	if !ok || credential.Expired(token, time.Now()) {
		if ok {
			// The token is locally expired; drop it rather than
			// letting the next background poll trip the 401 logout.
			if err := m.creds.Clear(); err != nil {
				m.logger.Warn("clearing expired token", "error", err)
			}
		}
		m.finishBootstrap(nil)
		return
	}

	user, err := m.identityAPI.Me(ctx)
	if err != nil {
		m.logger.Info("session restore failed", "error", err)
		m.finishBootstrap(nil)
		return
	}

	m.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
	m.finishBootstrap(user)
}

func (m *Manager) finishBootstrap(user *api.User) {
	m.mu.Lock()
	m.identity = user
	m.loading = false
	m.mu.Unlock()

	m.notify(user != nil)
}

// Login authenticates with the identity service. On success the token is
// persisted and the identity populated. Failures are returned as values:
// an *api.Error carries either a single message or field-level messages.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.User, error) {
	result, err := m.identityAPI.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.creds.Save(result.AccessToken); err != nil {
		return nil, err
	}

	m.mu.Lock()
	user := result.User
	m.identity = &user
	m.mu.Unlock()

	m.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	m.notify(true)
	return &user, nil
}

// Register creates a new account. The user logs in separately afterwards.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) error {
	return m.identityAPI.Register(ctx, req)
}

// Logout invalidates the server-side session best-effort, then clears
// local state regardless of the server outcome.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.identityAPI.Logout(ctx); err != nil {
		m.logger.Debug("server-side logout failed", "error", err)
	}

	if err := m.creds.Clear(); err != nil {
		m.logger.Warn("clearing credential on logout", "error", err)
	}

	m.mu.Lock()
	m.identity = nil
	m.mu.Unlock()

	m.logger.Info("logged out")
	m.notify(false)
}

// HandleUnauthorized is the gateway's 401 hook. The gateway has already
// cleared the credential; this drops the in-memory identity and tells
// subscribers to navigate to login.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	wasAuthenticated := m.identity != nil
	m.identity = nil
	m.mu.Unlock()

	if wasAuthenticated {
		m.logger.Info("session ended by 401")
	}
	m.notify(false)
}

// RefreshIdentity re-fetches the current identity. Used after balance or
// profile mutations made elsewhere.
func (m *Manager) RefreshIdentity(ctx context.Context) error {
	user, err := m.identityAPI.Me(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.identity = user
	m.mu.Unlock()
	return nil
}

// Identity returns a copy of the current identity, or nil when logged out.
func (m *Manager) Identity() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return nil
	}
	user := *m.identity
	return &user
}

// Loading reports whether the initial bootstrap attempt is still running.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// IsAuthenticated reports whether an identity is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// HasRole reports whether the identity holds exactly the given role.
func (m *Manager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil && m.identity.Role == role
}

// IsAdmin reports whether the identity holds the administrator role.
func (m *Manager) IsAdmin() bool {
	return m.HasRole(api.RoleAdministrator)
}

// IsManager reports whether the identity holds the manager role.
func (m *Manager) IsManager() bool {
	return m.HasRole(api.RoleManager)
}

// Subscribe registers for auth-state transitions. The channel receives
// the new authenticated flag; the subscription is cleaned up when ctx is
// cancelled.
func (m *Manager) Subscribe(ctx context.Context) <-chan bool {
	subID := uuid.New().String()
	ch := make(chan bool, 4)

	m.subMu.Lock()
	m.subscribers[subID] = ch
	m.subMu.Unlock()

	go func() {
		<-ctx.Done()
		m.subMu.Lock()
		delete(m.subscribers, subID)
		close(ch)
		m.subMu.Unlock()
	}()

	return ch
}

// notify fans the new auth state out to subscribers. Non-blocking: a
// subscriber that stopped draining misses the transition.
func (m *Manager) notify(authenticated bool) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subscribers {
		select {
		case ch <- authenticated:
		default:
		}
	}
}
