package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentmatch/internal/logger"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
)

func newAuthFixture(t *testing.T) (*fakeSessions, *authService) {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	users := newFakeUsers(
		models.AppUser{ID: 1, Account: "admin", PasswordHash: hash, IsAdmin: true, IsActive: true},
		models.AppUser{ID: 2, Account: "temp", PasswordHash: hash, IsActive: false},
	)
	sessions := newFakeSessions()
	svc := NewAuthService(users, sessions, TokenConfig{Secret: "test-secret", Issuer: "talentmatch", TTL: time.Hour}, logger.Discard()).(*authService)
	return sessions, svc
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	sessions, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), " admin ", "s3cret", "curl/8", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.Len(t, sessions.rows, 1)

	id, err := svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.UserID)
	assert.Equal(t, "admin", id.Username)
	assert.Equal(t, models.RoleAdmin, id.Role)
	assert.Equal(t, res.User.SessionID, id.SessionID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "admin", "wrong", "", "")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Login(context.Background(), "nobody", "s3cret", "", "")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Login(context.Background(), "", "", "", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestLoginRejectsInactive(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "temp", "s3cret", "", "")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestLogoutEndsSession(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "admin", "s3cret", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.User.SessionID))
	// a second logout is a no-op
	require.NoError(t, svc.Logout(context.Background(), res.User.SessionID))

	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "admin", "s3cret", "", "")
	require.NoError(t, err)

	later := time.Now().Add(2 * time.Hour)
	svc.now = func() time.Time { return later }
	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	svc.now = time.Now
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1", ID: res.User.SessionID, Issuer: "talentmatch"})
	raw, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), raw)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = svc.Authenticate(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
