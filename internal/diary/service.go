// AngelaMos | 2026
// service.go

package diary

import (
	"context"
	"fmt"
	"strings"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

type Sanitizer interface {
	RichText(s string) string
	PlainText(s string) string
}

type Service struct {
	repo      Repository
	sanitizer Sanitizer
}

func NewService(repo Repository, sanitizer Sanitizer) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateDiaryRequest,
) (*Row, error) {
	d := &Diary{
		UserID:     userID,
		Title:      s.sanitizer.PlainText(req.Title),
		Content:    s.sanitizer.RichText(req.Content),
		Mood:       strings.TrimSpace(req.Mood),
		Weather:    strings.TrimSpace(req.Weather),
		Visibility: req.Visibility,
	}
	if d.Visibility == "" {
		d.Visibility = VisibilityPublic
	}

	if err := checkText(d); err != nil {
		return nil, err
	}

	tags := NormalizeTags(req.Tags)
	if tags == nil {
		tags = []string{}
	}

	if err := s.repo.Create(ctx, d, tags, toMedia(req.Media)); err != nil {
		return nil, err
	}

	return s.repo.GetRow(ctx, d.ID, userID)
}

func (s *Service) Update(
	ctx context.Context,
	id, userID string,
	req UpdateDiaryRequest,
) (*Row, error) {
	d, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		d.Title = s.sanitizer.PlainText(*req.Title)
	}
	if req.Content != nil {
		d.Content = s.sanitizer.RichText(*req.Content)
	}
	if req.Mood != nil {
		d.Mood = strings.TrimSpace(*req.Mood)
	}
	if req.Weather != nil {
		d.Weather = strings.TrimSpace(*req.Weather)
	}
	if req.Visibility != nil {
		d.Visibility = *req.Visibility
	}

	if err := checkText(d); err != nil {
		return nil, err
	}

	var tags []string
	if req.Tags != nil {
		tags = NormalizeTags(req.Tags)
		if tags == nil {
			tags = []string{}
		}
	}

	if err := s.repo.Update(ctx, d, tags, toMedia(req.Media)); err != nil {
		return nil, err
	}

	return s.repo.GetRow(ctx, d.ID, userID)
}

// Delete removes a diary owned by userID, or any diary when asAdmin is set.
func (s *Service) Delete(ctx context.Context, id, userID string, asAdmin bool) error {
	if !asAdmin {
		if _, err := s.owned(ctx, id, userID); err != nil {
			return err
		}
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete diary: %w", core.ErrNotFound)
	}

	return nil
}

// Get returns the aggregated diary when viewerID may read it.
func (s *Service) Get(ctx context.Context, id, viewerID string) (*Row, error) {
	return s.repo.GetRow(ctx, id, viewerID)
}

// Visible returns the bare diary when viewerID may read it. Comments and
// likes use it to guard their writes.
func (s *Service) Visible(ctx context.Context, id, viewerID string) (*Diary, error) {
	return s.repo.GetVisible(ctx, id, viewerID)
}

func (s *Service) ListPublic(
	ctx context.Context,
	viewerID, tag string,
	limit, offset int,
) ([]Row, error) {
	return s.repo.List(ctx, ListFilter{
		Scope:    ScopePublic,
		ViewerID: viewerID,
		Tag:      normalizeTag(tag),
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *Service) ListByAuthor(
	ctx context.Context,
	authorID, viewerID string,
	limit, offset int,
) ([]Row, error) {
	return s.repo.List(ctx, ListFilter{
		Scope:    ScopeAuthor,
		ViewerID: viewerID,
		AuthorID: authorID,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *Service) Feed(
	ctx context.Context,
	viewerID string,
	limit, offset int,
) ([]Row, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("feed: %w", core.ErrUnauthorized)
	}

	return s.repo.List(ctx, ListFilter{
		Scope:    ScopeFeed,
		ViewerID: viewerID,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *Service) owned(ctx context.Context, id, userID string) (*Diary, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.UserID != userID {
		return nil, fmt.Errorf("diary %s: %w", id, core.ErrForbidden)
	}

	return d, nil
}

func checkText(d *Diary) error {
	if d.Title == "" || strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("diary text empty after sanitizing: %w", core.ErrInvalidInput)
	}
	return nil
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if len(out) > MaxTags {
		out = out[:MaxTags]
	}
	return out
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
}

func toMedia(in []MediaInput) []Media {
	if in == nil {
		return nil
	}

	out := make([]Media, 0, len(in))
	for _, m := range in {
		out = append(out, Media{URL: strings.TrimSpace(m.URL), MediaType: m.MediaType})
	}
	return out
}
