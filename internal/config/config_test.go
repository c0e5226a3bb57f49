package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/constants"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, constants.EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, constants.DefaultDataDir, cfg.Storage.DataDir)
	assert.Equal(t, constants.DefaultBackupPrefix, cfg.Storage.BackupPrefix)
	assert.Equal(t, constants.DefaultJWTExpiry, cfg.JWT.Expiry)
	assert.Equal(t, constants.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, constants.MaxAuditBodyBytes, cfg.Audit.MaxBodyBytes)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  environment: testing
  name: planhub-test
server:
  port: 9090
  read_timeout: 5s
storage:
  data_dir: /tmp/planhub-data
jwt:
  secret: file-secret
  expiry: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testing", cfg.App.Environment)
	assert.Equal(t, "planhub-test", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/planhub-data", cfg.Storage.DataDir)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)

	// Unset fields still pick up defaults.
	assert.Equal(t, constants.DefaultWriteTimeout, cfg.Server.WriteTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  environment: production\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestInvalidEnvironmentFallsBackToDevelopment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  environment: staging\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, constants.EnvDevelopment, cfg.App.Environment)
}

func TestServerAddress(t *testing.T) {
	ss := ServerSettings{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", ss.ServerAddress())
}

func TestEnvironmentHelpers(t *testing.T) {
	as := AppSettings{Environment: "Production"}
	assert.True(t, as.IsProduction())
	assert.False(t, as.IsDevelopment())

	as.Environment = "testing"
	assert.True(t, as.IsTesting())
}
