package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/niko-data"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func TestValidate_Success(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_InvalidEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"
	require.Error(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	require.Error(t, cfg.Validate())
}

func TestValidate_HostedBackendRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.URL = "https://example.supabase.co/rest/v1"
	require.Error(t, cfg.Validate())

	cfg.Backend.APIKey = "service-key"
	require.NoError(t, cfg.Validate())
}

func TestBackendConfig_UseEmbedded(t *testing.T) {
	require.True(t, BackendConfig{}.UseEmbedded())
	require.False(t, BackendConfig{URL: "https://example.com"}.UseEmbedded())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("NIKO_TEST_KEY", "from-env")

	require.Equal(t, "from-flag", getConfigValue("from-flag", "NIKO_TEST_KEY", "default"))
	require.Equal(t, "from-env", getConfigValue("", "NIKO_TEST_KEY", "default"))
	require.Equal(t, "default", getConfigValue("", "NIKO_TEST_MISSING", "default"))
}

func TestSplitOrigins(t *testing.T) {
	require.Equal(t, []string{"*"}, splitOrigins("*"))
	require.Equal(t,
		[]string{"http://localhost:5173", "https://niko.app"},
		splitOrigins("http://localhost:5173, https://niko.app"),
	)
}
