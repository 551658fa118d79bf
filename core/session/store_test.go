package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/access"
)

// authStub is a scriptable identity collaborator. An entry may carry a gate
// channel; Authenticate then blocks until the test closes it, which lets
// tests interleave in-flight logins deterministically.
type authStub struct {
	mu      sync.Mutex
	idents  map[string]Identity
	blocked map[string]chan struct{}
	err     error
}

func newAuthStub() *authStub {
	return &authStub{
		idents:  make(map[string]Identity),
		blocked: make(map[string]chan struct{}),
	}
}

func (a *authStub) add(username string, ident Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.idents[username] = ident
}

func (a *authStub) block(username string) chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	gate := make(chan struct{})
	a.blocked[username] = gate
	return gate
}

func (a *authStub) Authenticate(_ context.Context, username, password string) (Identity, error) {
	a.mu.Lock()
	gate := a.blocked[username]
	ident, ok := a.idents[username]
	err := a.err
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return Identity{}, err
	}
	if !ok || password != "s3cret" {
		return Identity{}, NewAuthenticationError("invalid credentials")
	}
	return ident, nil
}

func teacherIdent() Identity {
	return Identity{UserID: "u1", Name: "Asha", Role: access.RoleTeacher, SchoolID: "sch1"}
}

func parentIdent() Identity {
	return Identity{UserID: "u2", Name: "Kito", Role: access.RoleParent, SchoolID: "sch1"}
}

func TestStoreLoginRoundTrip(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	store := NewStore(auth)

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())

	sess, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
	require.NoError(t, err)

	// the session role is exactly what the collaborator reported
	assert.Equal(t, access.RoleTeacher, sess.Role)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "sch1", sess.SchoolID)
	assert.False(t, sess.AuthenticatedAt.IsZero())

	require.True(t, store.IsAuthenticated())
	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, sess, *cur)

	role, ok := store.CurrentRole()
	require.True(t, ok)
	assert.Equal(t, access.RoleTeacher, role)
}

func TestStoreLoginEmptyCredentials(t *testing.T) {
	store := NewStore(newAuthStub())

	for _, creds := range []Credentials{{}, {Username: "asha"}, {Password: "s3cret"}} {
		_, err := store.Login(context.Background(), creds)
		assert.True(t, IsAuthenticationError(err))
	}
	assert.False(t, store.IsAuthenticated())
}

func TestStoreLoginFailureKeepsSession(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	store := NewStore(auth)

	_, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
	require.NoError(t, err)

	_, err = store.Login(context.Background(), Credentials{Username: "asha", Password: "wrong"})
	require.True(t, IsAuthenticationError(err))

	// the failed attempt did not touch the existing session
	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, access.RoleTeacher, cur.Role)
}

func TestStoreLoginUnreachableCollaborator(t *testing.T) {
	auth := newAuthStub()
	auth.err = context.DeadlineExceeded
	store := NewStore(auth)

	_, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
	assert.True(t, IsAuthenticationError(err))
	assert.False(t, store.IsAuthenticated())
}

// logout immediately followed by a read observes no session, from any prior
// state; and logging out while unauthenticated is a no-op, not an error.
func TestStoreLogoutIdempotent(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	store := NewStore(auth)

	store.Logout()
	assert.Nil(t, store.Current())

	_, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
	require.NoError(t, err)

	store.Logout()
	assert.Nil(t, store.Current())
	assert.False(t, store.IsAuthenticated())

	store.Logout()
	assert.Nil(t, store.Current())
}

// A login that resolves after a newer login completed must not clobber the
// newer session.
func TestStoreLoginSuperseded(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	auth.add("kito", parentIdent())
	store := NewStore(auth)

	gate := auth.block("asha")

	errc := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
		errc <- err
	}()

	// second login wins while the first is still in flight
	waitForAttempt(t, store, 1)
	_, err := store.Login(context.Background(), Credentials{Username: "kito", Password: "s3cret"})
	require.NoError(t, err)

	close(gate)
	assert.Equal(t, ErrLoginSuperseded, <-errc)

	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, access.RoleParent, cur.Role)
}

// Logging out supersedes an in-flight login: its late result must not
// resurrect a session.
func TestStoreLogoutSupersedesInflightLogin(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	store := NewStore(auth)

	gate := auth.block("asha")

	errc := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), Credentials{Username: "asha", Password: "s3cret"})
		errc <- err
	}()

	waitForAttempt(t, store, 1)
	store.Logout()

	close(gate)
	assert.Equal(t, ErrLoginSuperseded, <-errc)
	assert.Nil(t, store.Current())
}

// An abandoned (canceled) login must not install a session once it resolves.
func TestStoreLoginCanceledContext(t *testing.T) {
	auth := newAuthStub()
	auth.add("asha", teacherIdent())
	store := NewStore(auth)

	gate := auth.block("asha")
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := store.Login(ctx, Credentials{Username: "asha", Password: "s3cret"})
		errc <- err
	}()

	waitForAttempt(t, store, 1)
	cancel()

	close(gate)
	assert.Equal(t, context.Canceled, <-errc)
	assert.Nil(t, store.Current())
}

// waitForAttempt spins until the store has handed out `n` attempt tokens,
// i.e. `n` logins have at least reached the identity check.
func waitForAttempt(t *testing.T, store *Store, n uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.RLock()
		attempt := store.attempt
		store.mu.RUnlock()
		if attempt >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("login attempt never started")
}

func TestNewSessionInvariants(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		ident   Identity
		wantErr bool
	}{
		{name: "teacher with school", ident: teacherIdent()},
		{name: "system admin without school", ident: Identity{UserID: "u3", Name: "Root", Role: access.RoleSystemAdmin}},
		{name: "unknown role", ident: Identity{UserID: "u4", Role: "superuser", SchoolID: "sch1"}, wantErr: true},
		{name: "empty role", ident: Identity{UserID: "u5", SchoolID: "sch1"}, wantErr: true},
		{name: "teacher without school", ident: Identity{UserID: "u6", Role: access.RoleTeacher}, wantErr: true},
		{name: "system admin with school", ident: Identity{UserID: "u7", Role: access.RoleSystemAdmin, SchoolID: "sch1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := New(tt.ident, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsAuthenticationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ident.Role, sess.Role)
			assert.Equal(t, now.UTC(), sess.AuthenticatedAt)
		})
	}
}
