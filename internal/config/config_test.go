package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEDGER_TEST_ROOT", "/srv/ledger")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "tilde only", input: "~", expected: home},
		{name: "tilde prefix", input: "~/books", expected: filepath.Join(home, "books")},
		{name: "env var", input: "$LEDGER_TEST_ROOT/data", expected: "/srv/ledger/data"},
		{name: "plain", input: "/tmp/ledger/", expected: "/tmp/ledger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestInit_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Init(v, "", t.TempDir()))

	cfg := FromViper(v)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/ledger"), cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestInit_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "data:\n  dir: " + filepath.Join(dir, "books") + "\nlogging:\n  level: debug\n  format: json\nuser: alice_01\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	t.Setenv("LEDGER_PASSWORD", "from-env")
	t.Setenv("LEDGER_LOGGING_LEVEL", "warn")

	v := viper.New()
	require.NoError(t, Init(v, cfgPath))

	cfg := FromViper(v)
	assert.Equal(t, filepath.Join(dir, "books"), cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "alice_01", cfg.Username)
	assert.Equal(t, "from-env", cfg.Password)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("LEDGER_DOTENV_ONLY=yes\nLEDGER_DOTENV_KEEP=file\n"), 0600))

	t.Setenv("LEDGER_DOTENV_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("LEDGER_DOTENV_ONLY") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "yes", os.Getenv("LEDGER_DOTENV_ONLY"))
	assert.Equal(t, "process", os.Getenv("LEDGER_DOTENV_KEEP"))
}

func TestValidate(t *testing.T) {
	valid := Config{DataDir: "/tmp/ledger", LogLevel: "info", LogFormat: "console"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name     string
		mutate   func(*Config)
		contains []string
	}{
		{
			name:     "empty data dir",
			mutate:   func(c *Config) { c.DataDir = "" },
			contains: []string{"data directory cannot be empty"},
		},
		{
			name:     "bad level",
			mutate:   func(c *Config) { c.LogLevel = "loud" },
			contains: []string{"log level"},
		},
		{
			name: "collects every problem",
			mutate: func(c *Config) {
				c.LogLevel = "loud"
				c.LogFormat = "xml"
			},
			contains: []string{"log level", "log format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}
