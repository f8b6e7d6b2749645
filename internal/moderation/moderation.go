// AngelaMos | 2026
// moderation.go

package moderation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/importcjj/sensitive"
	"github.com/microcosm-cc/bluemonday"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

// Moderator cleans user generated text before it is stored. Rich text keeps
// a safe HTML subset; plain text loses all markup. Both have sensitive
// words masked.
type Moderator struct {
	rich   *bluemonday.Policy
	plain  *bluemonday.Policy
	filter *sensitive.Filter
	mask   rune
}

func New(cfg config.ModerationConfig) (*Moderator, error) {
	filter := sensitive.New()

	words := make([]string, 0, len(cfg.Words))
	for _, w := range cfg.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	filter.AddWord(words...)

	if cfg.WordsFile != "" {
		if err := filter.LoadWordDict(cfg.WordsFile); err != nil {
			return nil, fmt.Errorf("load sensitive words %s: %w", cfg.WordsFile, err)
		}
	}

	mask := '*'
	if r, size := utf8.DecodeRuneInString(cfg.Mask); size > 0 && r != utf8.RuneError {
		mask = r
	}

	return &Moderator{
		rich:   bluemonday.UGCPolicy(),
		plain:  bluemonday.StrictPolicy(),
		filter: filter,
		mask:   mask,
	}, nil
}

// RichText sanitizes diary bodies.
func (m *Moderator) RichText(s string) string {
	return m.filter.Replace(m.rich.Sanitize(s), m.mask)
}

// PlainText sanitizes titles, comments and feedback.
func (m *Moderator) PlainText(s string) string {
	return strings.TrimSpace(m.filter.Replace(m.plain.Sanitize(s), m.mask))
}

// Flagged reports the first sensitive word found in s, if any.
func (m *Moderator) Flagged(s string) (string, bool) {
	found, word := m.filter.FindIn(s)
	return word, found
}
