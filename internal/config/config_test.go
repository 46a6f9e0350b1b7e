package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Watch:   WatchConfig{Root: "/watch/root", SettleDelay: time.Second},
		Journal: JournalConfig{Enabled: true, Path: "/watch/root/.dropsort/journal.db"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // level check is case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyWatchRoot(t *testing.T) {
	cfg := validConfig()
	cfg.Watch.Root = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_SettleDelay(t *testing.T) {
	cfg := validConfig()
	cfg.Watch.SettleDelay = 0
	assert.Error(t, cfg.Validate())

	cfg.Watch.SettleDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestValidate_JournalPath(t *testing.T) {
	cfg := validConfig()
	cfg.Journal.Path = ""
	assert.Error(t, cfg.Validate())

	// A disabled journal needs no path.
	cfg.Journal.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestExpandWatchRoot_EmptyUsesDownloads(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandWatchRoot())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.Watch.Root)
}

func TestExpandWatchRoot_TildeExpansion(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Root: "~/incoming"}}
	require.NoError(t, cfg.expandWatchRoot())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "incoming"), cfg.Watch.Root)
}

func TestExpandWatchRoot_RelativePath(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Root: "incoming"}}
	require.NoError(t, cfg.expandWatchRoot())
	assert.True(t, filepath.IsAbs(cfg.Watch.Root))
}

func TestExpandJournalPath_DefaultUnderWatchRoot(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Root: "/watch/root"}}
	require.NoError(t, cfg.expandJournalPath())
	assert.Equal(t, filepath.Join("/watch/root", ".dropsort", "journal.db"), cfg.Journal.Path)
}

func TestExpandJournalPath_ExplicitPath(t *testing.T) {
	cfg := &Config{
		Watch:   WatchConfig{Root: "/watch/root"},
		Journal: JournalConfig{Path: "/var/lib/dropsort/journal.db"},
	}
	require.NoError(t, cfg.expandJournalPath())
	assert.Equal(t, "/var/lib/dropsort/journal.db", cfg.Journal.Path)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	const key = "DROPSORT_TEST_CONFIG_VALUE"
	t.Setenv(key, "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", key, "default"))

	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", key, "default"))

	// Default when nothing else is set.
	os.Unsetenv(key)
	assert.Equal(t, "default", getConfigValue("", key, "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, getBoolConfigValue(tt.value, "DROPSORT_TEST_UNSET", false))
		})
	}

	// Empty falls through to the default.
	assert.True(t, getBoolConfigValue("", "DROPSORT_TEST_UNSET", true))
	assert.False(t, getBoolConfigValue("", "DROPSORT_TEST_UNSET", false))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `
# comment
DROPSORT_TEST_A=alpha
DROPSORT_TEST_B="quoted"

DROPSORT_TEST_C = spaced
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("DROPSORT_TEST_A", "")
	os.Unsetenv("DROPSORT_TEST_A")
	t.Setenv("DROPSORT_TEST_B", "")
	os.Unsetenv("DROPSORT_TEST_B")
	t.Setenv("DROPSORT_TEST_C", "")
	os.Unsetenv("DROPSORT_TEST_C")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "alpha", os.Getenv("DROPSORT_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("DROPSORT_TEST_B"))
	assert.Equal(t, "spaced", os.Getenv("DROPSORT_TEST_C"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o644))

	assert.Error(t, loadEnvFile(path))
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DROPSORT_TEST_KEEP=from-file\n"), 0o644))

	t.Setenv("DROPSORT_TEST_KEEP", "from-process")
	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "from-process", os.Getenv("DROPSORT_TEST_KEEP"))
}
