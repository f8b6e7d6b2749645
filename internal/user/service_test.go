// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/auth"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) GetProfile(ctx context.Context, id string) (*Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Profile)
	return p, args.Error(1)
}

func (m *mockRepo) Search(ctx context.Context, query string, limit int) ([]Profile, error) {
	args := m.Called(ctx, query, limit)
	p, _ := args.Get(0).([]Profile)
	return p, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, params ListUsersParams) ([]User, int, error) {
	args := m.Called(ctx, params)
	u, _ := args.Get(0).([]User)
	return u, args.Int(1), args.Error(2)
}

func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[string]int)
	return c, args.Error(1)
}

type fixedIDs string

func (f fixedIDs) NewID() string { return string(f) }

func TestCreateNormalizesAndAssignsID(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, fixedIDs("4kP9xQ2"))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.ID == "4kP9xQ2" &&
			u.Email == "alice@example.com" &&
			u.Username == "alice" &&
			u.Role == RoleMember &&
			u.Status == StatusActive
	})).Return(nil)

	info, err := svc.Create(context.Background(), "  Alice@Example.com ", "hash", " alice ")
	require.NoError(t, err)
	assert.Equal(t, "4kP9xQ2", info.ID)
	repo.AssertExpectations(t)
}

func TestCreateMapsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"username", ErrUsernameTaken, auth.ErrUsernameExists},
		{"email", ErrEmailTaken, auth.ErrEmailExists},
		{"unknown unique", core.ErrDuplicateKey, auth.ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("Create", mock.Anything, mock.Anything).Return(tt.repoErr)

			_, err := NewService(repo, fixedIDs("x")).Create(context.Background(), "a@b.co", "h", "alice")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateAdminRole(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Role == RoleAdmin
	})).Return(nil)

	info, err := NewService(repo, fixedIDs("x")).CreateAdmin(context.Background(), "root@b.co", "h", "root")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, info.Role)
}

func TestUsername(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, "a1").Return(&User{ID: "a1", Username: "alice", Status: StatusActive}, nil)
	repo.On("GetByID", mock.Anything, "gone").Return(&User{ID: "gone", Username: "ghost", Status: StatusDeleted}, nil)
	repo.On("GetByID", mock.Anything, "nobody").Return(nil, core.ErrNotFound)

	svc := NewService(repo, fixedIDs("x"))

	name, err := svc.Username(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = svc.Username(context.Background(), "gone")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Username(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		_, err := NewService(&mockRepo{}, fixedIDs("x")).SetStatus(context.Background(), "a1", StatusDeleted)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("admin cannot be suspended", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetByID", mock.Anything, "root").Return(&User{ID: "root", Role: RoleAdmin, Status: StatusActive}, nil)

		_, err := NewService(repo, fixedIDs("x")).SetStatus(context.Background(), "root", StatusSuspended)
		assert.ErrorIs(t, err, core.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("suspend member", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetByID", mock.Anything, "a1").Return(&User{ID: "a1", Role: RoleMember, Status: StatusActive}, nil)
		repo.On("UpdateStatus", mock.Anything, "a1", StatusSuspended).Return(nil)

		u, err := NewService(repo, fixedIDs("x")).SetStatus(context.Background(), "a1", StatusSuspended)
		require.NoError(t, err)
		assert.Equal(t, StatusSuspended, u.Status)
	})
}

func TestSearchBlankQuery(t *testing.T) {
	repo := &mockRepo{}

	got, err := NewService(repo, fixedIDs("x")).Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMeTrimsFields(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, "a1").Return(&User{ID: "a1", Username: "alice", Bio: "old"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	bio := "  writing daily  "
	u, err := NewService(repo, fixedIDs("x")).UpdateMe(context.Background(), "a1", UpdateUserRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "writing daily", u.Bio)
}

func TestMeRequiresUser(t *testing.T) {
	svc := NewService(&mockRepo{}, fixedIDs("x"))

	_, err := svc.GetMe(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteMe(context.Background(), ""), core.ErrUnauthorized)
}
