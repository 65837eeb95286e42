package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		envHost, envPort, envLogLevel, envLogFormat, envToolsFile, envValidationNumber,
		envCORSOrigins, envRequestTimeout, envShutdownTimeout, envTLSCertFile, envTLSKeyFile,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(envHost, "127.0.0.1")
	t.Setenv(envPort, "8081")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envLogFormat, "console")
	t.Setenv(envValidationNumber, "+1-555-0100")
	t.Setenv(envCORSOrigins, "https://a.example, https://b.example,")
	t.Setenv(envRequestTimeout, "5s")
	t.Setenv(envTLSCertFile, "cert.pem")
	t.Setenv(envTLSKeyFile, "key.pem")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "+1-555-0100", cfg.ValidationNumber)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.TLSEnabled())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=6000\nVALIDATION_NUMBER=+1-555-0111\n"), 0o600))
	// Already-set variables take precedence over the file.
	t.Setenv(envPort, "7000")
	// godotenv skips keys that exist even when empty; clearEnv restores it.
	require.NoError(t, os.Unsetenv(envValidationNumber))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "+1-555-0111", cfg.ValidationNumber)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric port":  {envPort: "http"},
		"port out of range": {envPort: "70000"},
		"bad duration":      {envRequestTimeout: "soon"},
		"bad log format":    {envLogFormat: "xml"},
		"cert without key":  {envTLSCertFile: "cert.pem"},
		"negative shutdown": {envShutdownTimeout: "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidate_Port(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPort)
}
