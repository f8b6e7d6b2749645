// AngelaMos | 2026
// service_test.go

package feedback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, f *Feedback) error {
	args := m.Called(ctx, f)
	f.ID = "f1"
	f.Status = StatusOpen
	return args.Error(0)
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Feedback, error) {
	args := m.Called(ctx, userID, limit, offset)
	items, _ := args.Get(0).([]Feedback)
	return items, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, status string, limit, offset int) ([]Feedback, int, error) {
	args := m.Called(ctx, status, limit, offset)
	items, _ := args.Get(0).([]Feedback)
	return items, args.Int(1), args.Error(2)
}

func (m *mockRepo) Reply(ctx context.Context, id, reply, status string) (*Feedback, error) {
	args := m.Called(ctx, id, reply, status)
	f, _ := args.Get(0).(*Feedback)
	return f, args.Error(1)
}

type mask struct{}

func (mask) PlainText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "damn", "****"))
}

func TestSubmitAnonymous(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *Feedback) bool {
		return f.UserID == nil && f.Content == "this **** button"
	})).Return(nil).Once()

	f, err := NewService(repo, mask{}).Submit(context.Background(), "", SubmitRequest{
		Category: CategoryBug, Content: " this damn button ",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, f.Status)
	repo.AssertExpectations(t)
}

func TestReplyDefaultsToResolved(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Reply", mock.Anything, "f1", "fixed", StatusResolved).
		Return(&Feedback{ID: "f1", Status: StatusResolved}, nil).Once()

	f, err := NewService(repo, mask{}).Reply(context.Background(), "f1", ReplyRequest{Reply: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, f.Status)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	_, _, err := NewService(&mockRepo{}, mask{}).List(context.Background(), "closed", 20, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSubmitEndpointValidation(t *testing.T) {
	repo := &mockRepo{}
	pass := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(NewService(repo, mask{})).RegisterRoutes(r, pass, pass)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feedback",
		strings.NewReader(`{"category":"praise","content":"hi"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feedback",
		strings.NewReader(`{"category":"suggestion","content":"dark mode"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feedback/mine", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
