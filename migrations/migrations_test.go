// AngelaMos | 2026
// migrations_test.go

package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(files, "sql/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	downs, err := fs.Glob(files, "sql/*.down.sql")
	require.NoError(t, err)

	assert.Len(t, downs, len(ups))

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(files, down)
		assert.NoError(t, err, "missing down migration for %s", up)
	}
}

func TestFollowSchemaGuardsPairs(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000002_follows_notifications.up.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.Contains(t, sql, "UNIQUE (follower_id, following_id)")
	assert.Contains(t, sql, "CHECK (follower_id <> following_id)")
	assert.Contains(t, sql, "source_user_id VARCHAR(16),")
}
