package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

type mockUserRepo struct {
	users map[id.ID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[id.ID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (m *mockUserRepo) Update(_ context.Context, user *User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, userID id.ID) error {
	delete(m.users, userID)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _ UserFilter) ([]User, int, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Exists(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type mockTokenRepo struct {
	tokens  map[string]*RefreshToken
	revoked []string
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (m *mockTokenRepo) SaveRefreshToken(_ context.Context, token *RefreshToken) error {
	cp := *token
	m.tokens[token.TokenHash] = &cp
	return nil
}

func (m *mockTokenRepo) GetRefreshToken(_ context.Context, tokenHash string) (*RefreshToken, error) {
	t, ok := m.tokens[tokenHash]
	if !ok {
		return nil, apperror.NewNotFound("refresh token", tokenHash)
	}
	return t, nil
}

func (m *mockTokenRepo) RevokeRefreshToken(_ context.Context, tokenID id.ID, reason string) error {
	for _, t := range m.tokens {
		if t.ID == tokenID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
			m.revoked = append(m.revoked, reason)
		}
	}
	return nil
}

func (m *mockTokenRepo) RevokeAllUserTokens(_ context.Context, userID id.ID, reason string) error {
	for _, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
			m.revoked = append(m.revoked, reason)
		}
	}
	return nil
}

func (m *mockTokenRepo) CleanupExpiredTokens(_ context.Context) (int, error) {
	return 0, nil
}

func newTestService(users *mockUserRepo, tokens *mockTokenRepo) *Service {
	return NewService(users, tokens, NewJWTService(DefaultJWTConfig("test-secret")), DefaultServiceConfig())
}

func register(t *testing.T, svc *Service, username, password, role string) *User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Username:  username,
		Matricule: "MAT-001",
		Password:  password,
		Role:      role,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_DuplicateUsernameIsConflict(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)

	register(t, svc, "amine", "Password1!", RoleUser)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:  "amine",
		Matricule: "MAT-002",
		Password:  "Password1!",
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc := newTestService(newMockUserRepo(), newMockTokenRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:  "amine",
		Matricule: "MAT-001",
		Password:  "short",
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegister_MissingMatriculeRejected(t *testing.T) {
	svc := newTestService(newMockUserRepo(), newMockTokenRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "amine",
		Password: "Password1!",
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLogin_IssuesValidatableTokens(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	register(t, svc, "amine", "Password1!", RoleAdmin)

	pair, user, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, "amine", user.Username)
	assert.NotNil(t, user.LastLoginAt)

	validated, err := svc.jwtService.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, validated.Role)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	register(t, svc, "amine", "Password1!", RoleUser)

	_, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "wrong"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	registered := register(t, svc, "amine", "Password1!", RoleUser)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "wrong"})
		require.Error(t, err)
	}

	// Even the correct password is rejected while locked.
	_, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.True(t, users.users[registered.ID].IsLocked())
}

func TestLogin_InactiveUserForbidden(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	registered := register(t, svc, "amine", "Password1!", RoleUser)
	users.users[registered.ID].IsActive = false

	_, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRefreshToken_SingleUse(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	register(t, svc, "amine", "Password1!", RoleUser)

	pair, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	require.NoError(t, err)

	next, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestRefreshToken_UnknownTokenUnauthorized(t *testing.T) {
	svc := newTestService(newMockUserRepo(), newMockTokenRepo())

	_, err := svc.RefreshToken(context.Background(), "deadbeef")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestChangePassword_RevokesOutstandingTokens(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	registered := register(t, svc, "amine", "Password1!", RoleUser)

	pair, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), registered.ID, "NewPassword1!"))

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, tokens.revoked, "password_changed")

	_, _, err = svc.Login(context.Background(), Credentials{Username: "amine", Password: "NewPassword1!"})
	assert.NoError(t, err)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	users, tokens := newMockUserRepo(), newMockTokenRepo()
	svc := newTestService(users, tokens)
	registered := register(t, svc, "amine", "Password1!", RoleUser)

	pair, _, err := svc.Login(context.Background(), Credentials{Username: "amine", Password: "Password1!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), registered.ID))

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}
