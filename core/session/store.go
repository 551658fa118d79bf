package session

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/shule/core/access"
)

// Authenticator is the external identity collaborator consulted on login.
// Invalid credentials must surface as an AuthenticationError.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
}

// Credentials is the login input. Both fields are required.
type Credentials struct {
	Username string
	Password string
}

// Store holds at most one active Session for the process.
//
// Mutation has a single writer path (Login/Logout) serialized behind one
// RWMutex; readers never observe a partially constructed Session because the
// Session is fully built before being published under the lock.
type Store struct {
	auth Authenticator

	mu      sync.RWMutex
	sess    *Session
	attempt uint64 // monotonically increasing login attempt token

	nowFunc func() time.Time // mockable
}

var _ access.SessionSource = (*Store)(nil)

func NewStore(auth Authenticator) *Store {
	return &Store{auth: auth, nowFunc: time.Now}
}

// Login validates credentials against the identity collaborator and, on
// success, replaces any existing Session. The identity check runs outside
// the lock so reads (and further logins) proceed while it is in flight.
//
// A login that resolves after a newer Login or a Logout is stale: its result
// is dropped and ErrLoginSuperseded returned. Likewise a login whose context
// was canceled never installs a Session. Failures of any kind leave the
// existing Session untouched.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return Session{}, NewAuthenticationError("username and password are required")
	}

	s.mu.Lock()
	s.attempt++
	token := s.attempt
	s.mu.Unlock()

	ident, err := s.auth.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		if IsAuthenticationError(err) {
			return Session{}, err
		}
		return Session{}, WrapAuthenticationError(err, "identity service unreachable")
	}

	sess, err := New(ident, s.nowFunc())
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.attempt {
		return Session{}, ErrLoginSuperseded
	}
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.sess = &sess
	return sess, nil
}

// Logout clears the current Session unconditionally. Idempotent: a logout
// with no active Session is a no-op. It also supersedes any login still in
// flight, so a stale login cannot resurrect a Session after logout.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt++
	s.sess = nil
}

// Current returns a copy of the active Session, or nil when unauthenticated.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return nil
	}
	cp := *s.sess
	return &cp
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess != nil
}

// CurrentRole satisfies access.SessionSource.
func (s *Store) CurrentRole() (access.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return "", false
	}
	return s.sess.Role, true
}
