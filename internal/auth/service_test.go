// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Insert(ctx context.Context, session *Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessions) ByHash(ctx context.Context, tokenHash string) (*Session, error) {
	args := m.Called(ctx, tokenHash)
	session, _ := args.Get(0).(*Session)
	return session, args.Error(1)
}

func (m *mockSessions) Rotate(ctx context.Context, id, successorID string) error {
	return m.Called(ctx, id, successorID).Error(0)
}

func (m *mockSessions) Revoke(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockSessions) RevokeFamily(ctx context.Context, familyID string) error {
	return m.Called(ctx, familyID).Error(0)
}

func (m *mockSessions) RevokeAll(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessions) Active(ctx context.Context, userID string) ([]Session, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]Session)
	return sessions, args.Error(1)
}

func (m *mockSessions) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*UserInfo, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, email, passwordHash, username string) (*UserInfo, error) {
	args := m.Called(ctx, email, passwordHash, username)
	u, _ := args.Get(0).(*UserInfo)
	return u, args.Error(1)
}

func (m *mockUsers) IncrementTokenVersion(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUsers) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func newTestService(t *testing.T) (*Service, *mockSessions, *mockUsers) {
	t.Helper()
	repo := &mockSessions{}
	users := &mockUsers{}
	return NewService(repo, newTestJWTManager(t, 15*time.Minute), users, nil), repo, users
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()

	users.On("Create", ctx, "alice@example.com", mock.AnythingOfType("string"), "alice").
		Return(&UserInfo{ID: "a1", Email: "alice@example.com", Username: "alice", Role: "member", Status: "active"}, nil)
	repo.On("Insert", ctx, mock.AnythingOfType("*auth.Session")).Return(nil)

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		Username: "alice",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "a1", resp.User.ID)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, 900, resp.Tokens.ExpiresIn)

	hash := users.Calls[0].Arguments.String(2)
	ok, err := core.VerifyPassword("secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _, users := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "onlyletters",
		Username: "alice",
	}, "", "")

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	users.AssertNotCalled(t, "Create")
}

func TestLogin(t *testing.T) {
	hash, err := core.HashPassword("secret123")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, core.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret123"}, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByEmail", mock.Anything, "alice@example.com").
			Return(&UserInfo{ID: "a1", PasswordHash: hash, Status: "active"}, nil)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong999"}, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended account", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByEmail", mock.Anything, "alice@example.com").
			Return(&UserInfo{ID: "a1", PasswordHash: hash, Status: "suspended"}, nil)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret123"}, "", "")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("success", func(t *testing.T) {
		svc, repo, users := newTestService(t)
		users.On("GetByEmail", mock.Anything, "alice@example.com").
			Return(&UserInfo{ID: "a1", PasswordHash: hash, Role: "member", Status: "active"}, nil)
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret123"}, "", "")
		require.NoError(t, err)
		assert.Equal(t, "a1", resp.User.ID)
	})
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	stored := &Session{
		ID:        "t1",
		UserID:    "a1",
		FamilyID:  "fam",
		Rotated:   true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.On("ByHash", ctx, core.HashToken("old-token")).Return(stored, nil)
	repo.On("RevokeFamily", ctx, "fam").Return(nil)

	_, err := svc.Refresh(ctx, "old-token", "", "")
	assert.ErrorIs(t, err, ErrTokenReuse)
	repo.AssertCalled(t, "RevokeFamily", ctx, "fam")
}

func TestRefreshRotates(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()

	stored := &Session{
		ID:        "t1",
		UserID:    "a1",
		FamilyID:  "fam",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.On("ByHash", ctx, core.HashToken("current")).Return(stored, nil)
	users.On("GetByID", ctx, "a1").Return(&UserInfo{ID: "a1", Role: "member", Status: "active"}, nil)
	repo.On("Rotate", ctx, "t1", mock.AnythingOfType("string")).Return(nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(s *Session) bool {
		return s.FamilyID == "fam" && s.UserID == "a1"
	})).Return(nil)

	resp, err := svc.Refresh(ctx, "current", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, "current", resp.Tokens.RefreshToken)
	repo.AssertExpectations(t)

	successor := repo.Calls[1].Arguments.String(2)
	inserted := repo.Calls[2].Arguments.Get(1).(*Session)
	assert.Equal(t, successor, inserted.ID)
}

func TestRefreshLosingRotationRaceRevokesFamily(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()

	repo.On("ByHash", ctx, core.HashToken("current")).Return(&Session{
		ID:        "t1",
		UserID:    "a1",
		FamilyID:  "fam",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.On("GetByID", ctx, "a1").Return(&UserInfo{ID: "a1", Status: "active"}, nil)
	repo.On("Rotate", ctx, "t1", mock.Anything).Return(core.ErrNotFound)
	repo.On("RevokeFamily", ctx, "fam").Return(nil)

	_, err := svc.Refresh(ctx, "current", "", "")
	assert.ErrorIs(t, err, ErrTokenReuse)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSessionState(t *testing.T) {
	now := time.Now()
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name    string
		session Session
		want    SessionState
	}{
		{"active", Session{ExpiresAt: now.Add(time.Hour)}, SessionActive},
		{"expired", Session{ExpiresAt: now}, SessionExpired},
		{"revoked", Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}, SessionRevoked},
		{"rotated wins over expiry", Session{ExpiresAt: now.Add(-time.Hour), Rotated: true}, SessionRotated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.State(now))
		})
	}
}

func TestRevokeSessionIsOwnerScoped(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Revoke", ctx, "a1", "s-other").Return(core.ErrNotFound)

	err := svc.RevokeSession(ctx, "a1", "s-other")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRefreshExpired(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("ByHash", mock.Anything, mock.Anything).Return(&Session{
		ID:        "t1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := svc.Refresh(context.Background(), "stale", "", "")
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessToken(t *testing.T) {
	issue := func(t *testing.T, svc *Service, version int) string {
		t.Helper()
		token, _, err := svc.jwt.CreateAccessToken(AccessTokenClaims{UserID: "a1", Role: "member", TokenVersion: version})
		require.NoError(t, err)
		return token
	}

	t.Run("role follows the account", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByID", mock.Anything, "a1").
			Return(&UserInfo{ID: "a1", Role: "admin", Status: "active", TokenVersion: 1}, nil)

		claims, err := svc.VerifyAccessToken(context.Background(), issue(t, svc, 1))
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("token predates logout-all", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByID", mock.Anything, "a1").
			Return(&UserInfo{ID: "a1", Role: "member", Status: "active", TokenVersion: 2}, nil)

		_, err := svc.VerifyAccessToken(context.Background(), issue(t, svc, 1))
		assert.ErrorIs(t, err, core.ErrTokenRevoked)
	})

	t.Run("suspended account", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByID", mock.Anything, "a1").
			Return(&UserInfo{ID: "a1", Role: "member", Status: "suspended"}, nil)

		_, err := svc.VerifyAccessToken(context.Background(), issue(t, svc, 0))
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("deleted account", func(t *testing.T) {
		svc, _, users := newTestService(t)
		users.On("GetByID", mock.Anything, "a1").Return(nil, core.ErrNotFound)

		_, err := svc.VerifyAccessToken(context.Background(), issue(t, svc, 0))
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestLogoutRejectsForeignRefreshToken(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("ByHash", mock.Anything, core.HashToken("theirs")).
		Return(&Session{ID: "t9", UserID: "someone-else"}, nil)

	err := svc.Logout(context.Background(), "theirs", &middleware.AccessTokenClaims{UserID: "a1"})
	assert.ErrorIs(t, err, core.ErrForbidden)
	repo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()

	repo.On("RevokeAll", ctx, "a1").Return(int64(2), nil)
	users.On("IncrementTokenVersion", ctx, "a1").Return(nil)

	require.NoError(t, svc.LogoutAll(ctx, "a1"))
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}
