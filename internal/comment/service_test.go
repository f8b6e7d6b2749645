// AngelaMos | 2026
// service_test.go

package comment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/diary"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/notification"
)

type memRepo struct {
	rows []Comment
}

func (m *memRepo) Create(_ context.Context, c *Comment) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Comment, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			c := m.rows[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
}

func (m *memRepo) ListByDiary(_ context.Context, diaryID string) ([]View, error) {
	out := []View{}
	for _, c := range m.rows {
		if c.DiaryID == diaryID {
			out = append(out, View{Comment: c, Username: c.UserID})
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (int64, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

var errDiaryStore = errors.New("connection reset")

// diaries exposes "d1" by alice to everyone and "secret" to alice only.
// Lookups of "broken" fail.
type diaries struct{}

func (diaries) Visible(_ context.Context, id, viewerID string) (*diary.Diary, error) {
	switch {
	case id == "d1":
		return &diary.Diary{ID: "d1", UserID: "alice", Title: "Spring"}, nil
	case id == "secret" && viewerID == "alice":
		return &diary.Diary{ID: "secret", UserID: "alice", Title: "Mine"}, nil
	case id == "broken":
		return nil, fmt.Errorf("get diary: %w", errDiaryStore)
	}
	return nil, fmt.Errorf("get diary: %w", core.ErrNotFound)
}

type names struct{}

func (names) Username(_ context.Context, id string) (string, error) { return id, nil }

type plain struct{}

func (plain) PlainText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "<i>", ""))
}

type recorder struct {
	sent []notification.Params
}

func (r *recorder) Notify(_ context.Context, p notification.Params) {
	r.sent = append(r.sent, p)
}

func newTestService() (*Service, *memRepo, *recorder) {
	repo := &memRepo{}
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, diaries{}, names{}, rec, plain{}, logger), repo, rec
}

func TestCreateNotifiesOwner(t *testing.T) {
	svc, _, rec := newTestService()

	c, err := svc.Create(context.Background(), "d1", "bob", CreateCommentRequest{Content: " nice "})
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Content)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "alice", rec.sent[0].RecipientID)
	assert.Equal(t, notification.TypeComment, rec.sent[0].Type)
	assert.Equal(t, `bob commented on your diary "Spring"`, rec.sent[0].Content)
	assert.Equal(t, "d1", rec.sent[0].RelatedID)
}

func TestCreateOnOwnDiaryIsSilent(t *testing.T) {
	svc, _, rec := newTestService()

	_, err := svc.Create(context.Background(), "d1", "alice", CreateCommentRequest{Content: "note"})
	require.NoError(t, err)
	assert.Empty(t, rec.sent)
}

func TestCreateRejections(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	_, err := svc.Create(ctx, "secret", "bob", CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Create(ctx, "d1", "bob", CreateCommentRequest{Content: "<i>"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	other, err := svc.Create(ctx, "secret", "alice", CreateCommentRequest{Content: "hi"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "d1", "bob", CreateCommentRequest{Content: "reply", ParentID: &other.ID})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	assert.Len(t, repo.rows, 1)
}

func TestDeletePermissions(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	c, err := svc.Create(ctx, "d1", "bob", CreateCommentRequest{Content: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID, "carol", false), core.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, c.ID, "alice", false), "diary owner")
	assert.Empty(t, repo.rows)

	c, err = svc.Create(ctx, "d1", "bob", CreateCommentRequest{Content: "again"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID, "root", true))

	assert.ErrorIs(t, svc.Delete(ctx, c.ID, "bob", false), core.ErrNotFound)
}

func TestDeleteKeepsDiaryLookupFailures(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	repo.rows = append(repo.rows,
		Comment{ID: "c1", DiaryID: "broken", UserID: "bob"},
		Comment{ID: "c2", DiaryID: "secret", UserID: "bob"},
	)

	err := svc.Delete(ctx, "c1", "carol", false)
	assert.ErrorIs(t, err, errDiaryStore)
	assert.NotErrorIs(t, err, core.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, "c2", "carol", false), core.ErrForbidden, "hidden diary")
	assert.Len(t, repo.rows, 2)
}

func TestListHiddenDiary(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.List(context.Background(), "secret", "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	views, err := svc.List(context.Background(), "d1", "")
	require.NoError(t, err)
	assert.Empty(t, views)
}
