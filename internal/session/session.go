package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mediguide/mediguide-client/internal/models"
)

// AuthClient defines the remote auth operations the manager depends on.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (string, error)
	UserInfo(ctx context.Context) (models.Principal, error)
}

// Snapshot is an immutable view of the session at one point in time.
// LoggedIn reflects token presence; the principal may still be anonymous
// when resolution failed.
type Snapshot struct {
	LoggedIn  bool
	Principal models.Principal
}

// Manager is the process-wide session object. It holds the bearer token and
// the principal resolved behind it. Subscribers are notified synchronously
// after every mutation so gating state is re-derived immediately.
type Manager struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	auth      AuthClient
	token     string
	principal models.Principal
	subs      []func(Snapshot)
}

// NewManager constructs an unauthenticated session manager. Bind must be
// called with the API client before Login is used; the two reference each
// other, so construction happens in two steps.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger, principal: models.Anonymous()}
}

// Bind attaches the auth client used for login and principal resolution.
func (m *Manager) Bind(auth AuthClient) {
	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()
}

// Token returns the most recently stored bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{LoggedIn: m.token != "", Principal: m.principal}
}

// Subscribe registers a callback invoked after every session mutation.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Login exchanges credentials for a token and resolves the principal behind
// it. A failed principal resolution does not fail the login: the session
// keeps the token but gates as if no role were held.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.mu.RLock()
	auth := m.auth
	m.mu.RUnlock()
	if auth == nil {
		return fmt.Errorf("session manager not bound to an auth client")
	}

	token, err := auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.principal = models.Anonymous()
	m.mu.Unlock()

	principal, err := auth.UserInfo(ctx)
	if err != nil {
		m.logger.Warn("principal resolution failed, session has no role", slog.Any("error", err))
	} else {
		m.mu.Lock()
		m.principal = principal
		m.mu.Unlock()
	}

	m.notify()
	return nil
}

// Logout discards the token and principal. Save attempts become impossible
// immediately, not merely rejected server-side.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.principal = models.Anonymous()
	m.mu.Unlock()

	m.notify()
}

func (m *Manager) notify() {
	m.mu.RLock()
	snapshot := Snapshot{LoggedIn: m.token != "", Principal: m.principal}
	subs := append(([]func(Snapshot))(nil), m.subs...)
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
