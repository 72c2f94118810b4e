package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
server:
  port: 9090
database:
  host: db
  name: agenda_test
jwt:
  secret: from-file
cache:
  view_ttl: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))

	t.Setenv("AGENDA_DATABASE_HOST", "override-host")
	t.Setenv("AGENDA_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, "agenda_test", cfg.Database.Name)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Cache.ViewTTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone.Location)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoadConfigFrom_RequiresSecret(t *testing.T) {
	_, err := LoadConfigFrom(t.TempDir())
	assert.EqualError(t, err, "jwt.secret is required")
}
