package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// IngestSettings configuration for question ingestion and storage
type IngestSettings struct {
	DataDir     string            `mapstructure:"data_dir"`
	Site        string            `mapstructure:"site"`
	Limit       int               `mapstructure:"limit"`
	Sort        string            `mapstructure:"sort"`
	FetchDelay  time.Duration     `mapstructure:"fetch_delay"`
	LockTimeout time.Duration     `mapstructure:"lock_timeout"`
	MaxResults  int               `mapstructure:"max_results"`
	Categories  map[string]string `mapstructure:"categories"`
}

// Settings application settings
type Settings struct {
	Transport string         `mapstructure:"transport"`
	Host      string         `mapstructure:"host"`
	Port      int            `mapstructure:"port"`
	Auth      AuthSettings   `mapstructure:"auth"`
	Ingest    IngestSettings `mapstructure:"ingest"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Ingest defaults
	v.SetDefault("ingest.data_dir", defaultDataDir())
	v.SetDefault("ingest.site", "stackoverflow")
	v.SetDefault("ingest.limit", 10)
	v.SetDefault("ingest.sort", "votes")
	v.SetDefault("ingest.fetch_delay", 100*time.Millisecond)
	v.SetDefault("ingest.lock_timeout", 30*time.Second)
	v.SetDefault("ingest.max_results", 20)

	// Environment variables
	v.SetEnvPrefix("STACKFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "STACKFEED_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "STACKFEED_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "STACKFEED_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "STACKFEED_AUTH_API_KEYS")

	// Ingest env var bindings
	_ = v.BindEnv("ingest.data_dir", "STACKFEED_INGEST_DATA_DIR")
	_ = v.BindEnv("ingest.site", "STACKFEED_INGEST_SITE")
	_ = v.BindEnv("ingest.limit", "STACKFEED_INGEST_LIMIT")
	_ = v.BindEnv("ingest.sort", "STACKFEED_INGEST_SORT")
	_ = v.BindEnv("ingest.fetch_delay", "STACKFEED_INGEST_FETCH_DELAY")
	_ = v.BindEnv("ingest.lock_timeout", "STACKFEED_INGEST_LOCK_TIMEOUT")
	_ = v.BindEnv("ingest.max_results", "STACKFEED_INGEST_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Ingest CLI flags
		_ = v.BindPFlag("ingest.data_dir", flags.Lookup("data-dir"))
		_ = v.BindPFlag("ingest.site", flags.Lookup("site"))
		_ = v.BindPFlag("ingest.limit", flags.Lookup("limit"))
		_ = v.BindPFlag("ingest.sort", flags.Lookup("sort"))
		_ = v.BindPFlag("ingest.fetch_delay", flags.Lookup("fetch-delay"))
		_ = v.BindPFlag("ingest.lock_timeout", flags.Lookup("lock-timeout"))
		_ = v.BindPFlag("ingest.max_results", flags.Lookup("max-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("STACKFEED_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	// Expand home directory in data_dir
	settings.Ingest.DataDir = expandHomeDir(settings.Ingest.DataDir)

	return &settings, nil
}

// defaultDataDir returns the default data directory
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stackfeed"
	}
	return filepath.Join(home, ".stackfeed")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete auth config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	// Validate ingest settings
	if err := validateIngestSettings(&s.Ingest); err != nil {
		return err
	}

	return nil
}

// validateIngestSettings validates the ingest configuration
func validateIngestSettings(in *IngestSettings) error {
	if in.DataDir == "" {
		return errors.New("data-dir cannot be empty")
	}

	if in.Limit <= 0 {
		return errors.New("limit must be positive")
	}

	switch in.Sort {
	case "votes", "creation", "activity":
		// valid
	default:
		return errors.New("sort must be 'votes', 'creation' or 'activity', got: " + in.Sort)
	}

	if in.FetchDelay < 0 {
		return errors.New("fetch-delay cannot be negative")
	}

	if in.LockTimeout <= 0 {
		return errors.New("lock-timeout must be positive")
	}

	if in.MaxResults <= 0 {
		return errors.New("max-results must be positive")
	}

	return nil
}
