// AngelaMos | 2026
// moderation_test.go

package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

func TestPlainTextStripsMarkupAndMasks(t *testing.T) {
	m, err := New(config.ModerationConfig{Words: []string{"spam"}, Mask: "#"})
	require.NoError(t, err)

	out := m.PlainText(`  <b>buy</b> spam <script>alert(1)</script> `)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "####")
	assert.NotContains(t, out, "spam")
}

func TestRichTextKeepsSafeMarkup(t *testing.T) {
	m, err := New(config.ModerationConfig{})
	require.NoError(t, err)

	out := m.RichText(`<p>sunny <em>day</em></p><img src=x onerror="alert(1)">`)

	assert.Contains(t, out, "<p>")
	assert.Contains(t, out, "<em>day</em>")
	assert.NotContains(t, out, "onerror")
}

func TestWordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("badword\n"), 0o600))

	m, err := New(config.ModerationConfig{WordsFile: path})
	require.NoError(t, err)

	word, ok := m.Flagged("this has a badword in it")
	assert.True(t, ok)
	assert.Equal(t, "badword", word)

	_, ok = m.Flagged("clean text")
	assert.False(t, ok)
}

func TestMissingWordsFile(t *testing.T) {
	_, err := New(config.ModerationConfig{WordsFile: "/nonexistent/words.txt"})
	assert.Error(t, err)
}
