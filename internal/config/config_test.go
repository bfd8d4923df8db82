package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const fullConfig = `
[server]
host = "127.0.0.1"
port = 9000
log_level = "debug"

[database]
path = "/var/lib/fetcharr/fetcharr.db"

[webshare]
username = "user"
password = "secret"

[pyload]
url = "http://pyload:8000"
username = "admin"
password = "admin"
download_dir = "/downloads"

[sonarr]
url = "http://sonarr:8989"
api_key = "sonarr-key"

[radarr]
url = "http://radarr:7878"
api_key = "radarr-key"

[plex]
url = "http://plex:32400"
token = "plex-token"

[search]
preferred_language = "cs"
language_bonus = 50
min_quality = "720p"
max_size_gb = 8.5
top_n = 5
cache_ttl = "2h"

[mover]
interval = "30s"
grace = "5m"
retention_days = 14
`

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Webshare.Password)
	assert.Equal(t, "/downloads", cfg.PyLoad.DownloadDir)
	require.NotNil(t, cfg.Sonarr)
	assert.Equal(t, "sonarr-key", cfg.Sonarr.APIKey)
	require.NotNil(t, cfg.Plex)
	assert.Equal(t, "720p", cfg.Search.MinQuality)
	assert.Equal(t, 8.5, cfg.Search.MaxSizeGB)
	assert.Equal(t, 2*time.Hour, cfg.Search.CacheTTL.Duration())
	assert.Equal(t, 30*time.Second, cfg.Mover.Interval.Duration())
	assert.Equal(t, 14, cfg.Mover.RetentionDays)

	assert.Empty(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[webshare]
username = "u"
password = "p"

[pyload]
url = "http://pyload:8000"
download_dir = "/downloads"

[sonarr]
url = "http://sonarr:8989"
api_key = "k"
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/fetcharr.db", cfg.Database.Path)
	assert.Equal(t, "https://webshare.cz/api", cfg.Webshare.URL)
	assert.Equal(t, "cs", cfg.Search.PreferredLanguage)
	assert.Equal(t, 50, cfg.Search.LanguageBonus)
	assert.Equal(t, 10, cfg.Search.TopN)
	assert.Equal(t, 6*time.Hour, cfg.Search.CacheTTL.Duration())
	assert.Equal(t, time.Minute, cfg.Mover.Interval.Duration())
	assert.Equal(t, 5*time.Minute, cfg.Mover.Grace.Duration())
	assert.Equal(t, 30, cfg.Mover.RetentionDays)
	assert.Nil(t, cfg.Radarr)
	assert.Nil(t, cfg.Plex)

	assert.Empty(t, cfg.Validate())
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("WS_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, `
[webshare]
username = "u"
password = "${WS_PASSWORD}"

[pyload]
url = "http://pyload:8000"
download_dir = "/downloads"

[sonarr]
url = "http://sonarr:8989"
api_key = "${MISSING_VAR}"
`))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Webshare.Password)
	assert.Equal(t, "${MISSING_VAR}", cfg.Sonarr.APIKey, "unset variables stay literal")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
log_level = "verbose"

[search]
min_quality = "4K"
`))
	require.NoError(t, err)

	errs := cfg.Validate()
	assert.Contains(t, errs, `server.log_level: must be one of debug, info, warn, error; got "verbose"`)
	assert.Contains(t, errs, "webshare.username: required")
	assert.Contains(t, errs, "pyload.url: required")
	assert.Contains(t, errs, "at least one of [sonarr] or [radarr] must be configured")
	assert.Contains(t, errs, `search.min_quality: must be one of 360p, 480p, 720p, 1080p, 2160p; got "4K"`)
}

func TestValidatePlexPathMapping(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[webshare]
username = "u"
password = "p"

[pyload]
url = "http://pyload:8000"
download_dir = "/downloads"

[radarr]
url = "http://radarr:7878"
api_key = "k"

[plex]
url = "http://plex:32400"
token = "t"
local_path = "/library"
`))
	require.NoError(t, err)

	errs := cfg.Validate()
	assert.Contains(t, errs, "plex.local_path and plex.remote_path must be set together")
}
