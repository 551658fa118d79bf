package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/access"
)

func TestVerifyToken(t *testing.T) {
	origSecretKey := secretKey
	origTimeoutDelta := passwordResetTimeoutDelta
	origNowFunc := nowFunc
	defer func() {
		secretKey = origSecretKey
		passwordResetTimeoutDelta = origTimeoutDelta
		nowFunc = origNowFunc
	}()
	secretKey = []byte("s3cr3t")
	passwordResetTimeoutDelta = 3 * 24 * time.Hour

	usr := User{ID: "0746d33f-8b7b-42fb-8f79-766a6df31b69", Role: access.RoleTeacher, SchoolID: "sch1"}
	require.NoError(t, usr.SetPassword("initial-pass"))

	freshToken := func() string {
		nowFunc = time.Now
		token, err := makeToken(usr)
		require.NoError(t, err)
		return token
	}
	expiredToken := func() string {
		nowFunc = func() time.Time { return time.Now().Add(-4 * 24 * time.Hour) }
		token, err := makeToken(usr)
		require.NoError(t, err)
		return token
	}
	otherUserToken := func() string {
		nowFunc = time.Now
		other := User{ID: "b38ba1ff-2e7c-4ba1-9b44-24ca27647878"}
		require.NoError(t, other.SetPassword("initial-pass"))
		token, err := makeToken(other)
		require.NoError(t, err)
		return token
	}
	usedToken := func() string {
		nowFunc = time.Now
		token, err := makeToken(usr)
		require.NoError(t, err)
		require.NoError(t, usr.SetPassword("new-pass")) // use invalidates
		return token
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: errInvalidToken},
		{name: "no separator", token: "NOTATOKEN", wantErr: errInvalidToken},
		{name: "bad timestamp encoding", token: "###-abcdef", wantErr: errInvalidToken},
		{name: "tampered signature", token: freshToken() + "x", wantErr: errInvalidToken},
		{name: "another user's token", token: otherUserToken(), wantErr: errInvalidToken},
		{name: "already used", token: usedToken(), wantErr: errInvalidToken},
		{name: "expired", token: expiredToken(), wantErr: errTokenExpired},
		{name: "valid", token: freshToken()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyToken(usr, tt.token)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := User{ID: "0746d33f-8b7b-42fb-8f79-766a6df31b69"}
	uid := encodeUID(usr)
	require.NotEqual(t, usr.ID, uid)

	id, err := decodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)

	_, err = decodeUID("%%%")
	assert.Error(t, err)
}
