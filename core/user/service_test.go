package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/session"
)

// mailRecorder captures sent mail synchronously for assertions.
type mailRecorder struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*mailRecorder)(nil)

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		m.sent = append(m.sent, *msg)
	}
}

func (m *mailRecorder) last(t *testing.T) core.EmailMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// memRepo is a minimal in-memory Repository for service tests.
type memRepo struct {
	mu    sync.Mutex
	users map[string]User
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo { return &memRepo{users: make(map[string]User)} }

func (r *memRepo) CheckUsernameUniqueness(username, email string, excludedUsers ...User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	excluded := func(usr User) bool {
		for _, ex := range excludedUsers {
			if ex.ID == usr.ID {
				return true
			}
		}
		return false
	}
	for _, usr := range r.users {
		if excluded(usr) {
			continue
		}
		if username != "" && usr.Username == username {
			return ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *memRepo) CreateUser(usr User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *memRepo) QueryAllUsers() ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]User, 0, len(r.users))
	for _, usr := range r.users {
		users = append(users, usr)
	}
	return users, nil
}

func (r *memRepo) GetUserByID(id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (r *memRepo) GetUserByUsername(username string) (User, error) {
	return r.find(func(u User) bool { return u.Username == username })
}

func (r *memRepo) GetUserByEmail(email string) (User, error) {
	return r.find(func(u User) bool { return u.Email == email })
}

func (r *memRepo) GetUserByUsernameOrEmail(username string) (User, error) {
	return r.find(func(u User) bool { return u.Username == username || u.Email == username })
}

func (r *memRepo) find(match func(User) bool) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, usr := range r.users {
		if match(usr) {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memRepo) FilterUsers(filter QueryFilter) ([]User, error) {
	users, _ := r.QueryAllUsers()
	res := make([]User, 0, len(users))
	for _, usr := range users {
		if filter.Role != "" && string(usr.Role) != filter.Role {
			continue
		}
		if filter.SchoolID != "" && usr.SchoolID != filter.SchoolID {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		res = append(res, usr)
	}
	return res, nil
}

func (r *memRepo) UpdateUser(usr User, isActive *bool) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orig, ok := r.users[usr.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.SchoolID != "" {
		orig.SchoolID = usr.SchoolID
	}
	if len(usr.PasswordHash) > 0 {
		orig.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = time.Now().UTC()
	r.users[usr.ID] = orig
	return orig, nil
}

func (r *memRepo) DeleteUsersByID(ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.users, id)
	}
	return nil
}

func setupService(t *testing.T) (Service, *memRepo, *mailRecorder) {
	t.Helper()
	repo := newMemRepo()
	mailSvc := &mailRecorder{}
	return NewServiceMock(repo, mailSvc), repo, mailSvc
}

func createUser(t *testing.T, svc Service, nu NewUser) User {
	t.Helper()
	usr, err := svc.Create(nu)
	require.NoError(t, err)
	return usr
}

func teacherNewUser() NewUser {
	return NewUser{
		Name:            "Asha Mwangi",
		Username:        "ashamw",
		Email:           "asha@sch1.example.com",
		Role:            string(access.RoleTeacher),
		SchoolID:        "sch1",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	}
}

func TestServiceCreate(t *testing.T) {
	svc, _, _ := setupService(t)

	usr := createUser(t, svc, teacherNewUser())
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, access.RoleTeacher, usr.Role)
	assert.Equal(t, "sch1", usr.SchoolID)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("correct-horse"))
	assert.Error(t, usr.CheckPassword("wrong"))

	got, err := svc.GetByID(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.Username, got.Username)
}

func TestServiceCheckUniqueness(t *testing.T) {
	svc, _, _ := setupService(t)
	usr := createUser(t, svc, teacherNewUser())

	var vErr *core.ValidationError

	err := svc.CheckUniqueness(usr.Username, "someone-else@example.com")
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "username", vErr.Fields[0].Field)

	err = svc.CheckUniqueness("someoneelse", usr.Email)
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "email", vErr.Fields[0].Field)

	// the user itself is excluded on update
	assert.NoError(t, svc.CheckUniqueness(usr.Username, usr.Email, usr))

	assert.NoError(t, svc.CheckUniqueness("fresh", "fresh@example.com"))
}

func TestServiceAuthenticate(t *testing.T) {
	svc, _, _ := setupService(t)
	usr := createUser(t, svc, teacherNewUser())

	inactive := teacherNewUser()
	inactive.Username = "dormant"
	inactive.Email = "dormant@sch1.example.com"
	deactivated := createUser(t, svc, inactive)
	f := false
	_, err := svc.Update(deactivated.ID, UpdateUser{IsActive: &f})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		ident, err := svc.Authenticate(ctx, usr.Username, "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, ident.UserID)
		assert.Equal(t, access.RoleTeacher, ident.Role)
		assert.Equal(t, "sch1", ident.SchoolID)

		// successful login stamps LastLogin
		got, err := svc.GetByID(usr.ID)
		require.NoError(t, err)
		assert.False(t, got.LastLogin.IsZero())
	})

	t.Run("by email", func(t *testing.T) {
		ident, err := svc.Authenticate(ctx, usr.Email, "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, ident.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, usr.Username, "wrong")
		assert.True(t, session.IsAuthenticationError(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nosuchuser", "correct-horse")
		assert.True(t, session.IsAuthenticationError(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "dormant", "correct-horse")
		assert.True(t, session.IsAuthenticationError(err))
	})
}

func TestServicePasswordReset(t *testing.T) {
	svc, _, mailSvc := setupService(t)
	usr := createUser(t, svc, teacherNewUser())

	t.Run("unknown email", func(t *testing.T) {
		err := svc.RequestPasswordReset("ghost@example.com")
		assert.Equal(t, ErrNotFound, err)
	})

	require.NoError(t, svc.RequestPasswordReset(usr.Email))

	msg := mailSvc.last(t)
	require.Len(t, msg.To, 1)
	assert.Equal(t, usr.Email, msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "password-reset?uid=")

	token, err := makeToken(usr)
	require.NoError(t, err)

	t.Run("bad uid", func(t *testing.T) {
		err := svc.ResetPassword(ResetUserPassword{UID: "%%%", Token: token, Password: "new-pass", PasswordConfirm: "new-pass"})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("bad token", func(t *testing.T) {
		err := svc.ResetPassword(ResetUserPassword{UID: encodeUID(usr), Token: "NOTATOKEN", Password: "new-pass", PasswordConfirm: "new-pass"})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("round trip", func(t *testing.T) {
		err := svc.ResetPassword(ResetUserPassword{UID: encodeUID(usr), Token: token, Password: "new-pass", PasswordConfirm: "new-pass"})
		require.NoError(t, err)

		got, err := svc.GetByID(usr.ID)
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("new-pass"))

		// a token is single use
		err = svc.ResetPassword(ResetUserPassword{UID: encodeUID(usr), Token: token, Password: "other-pass", PasswordConfirm: "other-pass"})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}
