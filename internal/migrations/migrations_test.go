package migrations

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var migrationName = regexp.MustCompile(`^(\d{6})_[a-z_]+\.(up|down)\.sql$`)

// Каждой up-миграции соответствует down, номера идут подряд.
func TestMigrationFilesArePaired(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)

	versions := map[string]map[string]bool{}
	for _, e := range entries {
		m := migrationName.FindStringSubmatch(e.Name())
		require.NotNil(t, m, "неверное имя миграции %s", e.Name())
		if versions[m[1]] == nil {
			versions[m[1]] = map[string]bool{}
		}
		versions[m[1]][m[2]] = true
	}

	require.NotEmpty(t, versions)
	for v, dirs := range versions {
		assert.True(t, dirs["up"] && dirs["down"], "миграция %s без пары", v)
	}
	assert.Contains(t, versions, "000001")
	assert.Contains(t, versions, "000002")
}

func TestUpInvalidSource(t *testing.T) {
	err := Up("file:///nonexistent/migrations", "postgres://u:p@localhost:1/db?sslmode=disable", zap.NewNop())
	assert.Error(t, err)
}
