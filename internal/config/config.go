// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Watch   WatchConfig
	Rules   RulesConfig
	Journal JournalConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// WatchConfig holds watch-root configuration.
type WatchConfig struct {
	// Root is the single directory under observation. Fixed for the process
	// lifetime; resolved before anything else runs.
	Root string
	// SettleDelay is how long a newly created file must sit unchanged before
	// the pipeline acts on it (default: 1s).
	SettleDelay time.Duration
}

// RulesConfig holds classification ruleset configuration.
type RulesConfig struct {
	// Path points to an optional YAML rules file. Empty means the built-in
	// extension table.
	Path string
}

// JournalConfig holds move-journal configuration.
type JournalConfig struct {
	// Enabled toggles move-history recording (default: true).
	Enabled bool
	// Path is the SQLite database location (default: {watch root}/.dropsort/journal.db).
	Path string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// The watch root may also be given as the first positional argument, which
// outranks the -watch-root flag.
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	watchRoot := flag.String("watch-root", "", "Directory to watch (default: ~/Downloads)")
	settleDelay := flag.String("settle-delay", "", "Quiet period before a new file is processed (default: 1s)")
	rulesPath := flag.String("rules", "", "Path to a YAML rules file (default: built-in table)")
	journalEnabled := flag.String("journal-enabled", "", "Record moves in the journal (default: true)")
	journalPath := flag.String("journal-path", "", "Path to the journal database")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// The positional argument wins over the flag, matching the original
	// "dropsortd /some/dir" invocation style.
	root := *watchRoot
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Watch: WatchConfig{
			Root: getConfigValue(root, "DROPSORT_WATCH_ROOT", ""),
		},
		Rules: RulesConfig{
			Path: getConfigValue(*rulesPath, "DROPSORT_RULES", ""),
		},
		Journal: JournalConfig{
			Enabled: getBoolConfigValue(*journalEnabled, "DROPSORT_JOURNAL_ENABLED", true),
			Path:    getConfigValue(*journalPath, "DROPSORT_JOURNAL_PATH", ""),
		},
	}

	settleStr := getConfigValue(*settleDelay, "DROPSORT_SETTLE_DELAY", "1s")
	settle, err := time.ParseDuration(settleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid settle delay %q: %w", settleStr, err)
	}
	cfg.Watch.SettleDelay = settle

	if err := cfg.expandWatchRoot(); err != nil {
		return nil, fmt.Errorf("invalid watch root: %w", err)
	}

	if err := cfg.expandJournalPath(); err != nil {
		return nil, fmt.Errorf("invalid journal path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Watch.Root == "" {
		return errors.New("watch root cannot be empty after expansion")
	}

	if c.Watch.SettleDelay <= 0 {
		return fmt.Errorf("settle delay must be positive, got %s", c.Watch.SettleDelay)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New("journal path cannot be empty when the journal is enabled")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandWatchRoot expands ~ and makes the path absolute.
// Defaults to the user's download directory when unset.
func (c *Config) expandWatchRoot() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultRoot := filepath.Join(homeDir, "Downloads")

	expanded, err := expandPath(c.Watch.Root, defaultRoot)
	if err != nil {
		return err
	}
	c.Watch.Root = expanded
	return nil
}

// expandJournalPath expands ~ and makes the path absolute.
// Defaults to {watch root}/.dropsort/journal.db. Living under a dot-directory
// keeps the journal invisible to the pipeline's own hidden-file filter.
func (c *Config) expandJournalPath() error {
	defaultPath := filepath.Join(c.Watch.Root, ".dropsort", "journal.db")

	expanded, err := expandPath(c.Journal.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Journal.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
