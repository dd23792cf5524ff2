package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override file values.
const (
	EnvBaseURL       = "GALX_BASE_URL"
	EnvAccessToken   = "GALX_ACCESS_TOKEN"
	EnvArchiveBucket = "GALX_ARCHIVE_BUCKET"
	EnvLogLevel      = "GALX_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Access   AccessConfig   `toml:"access"`
	Database DatabaseConfig `toml:"database"`
	Archive  ArchiveConfig  `toml:"archive"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains gallery API connection settings.
type ServerConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the transport timeout. Zero means no client-side timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AuthConfig contains API credentials.
type AuthConfig struct {
	AccessToken  string   `toml:"access_token"`
	RefreshToken string   `toml:"refresh_token"`
	TokenURL     string   `toml:"token_url"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	AuthURL      string   `toml:"auth_url"`
	RedirectURL  string   `toml:"redirect_url"`
	Scopes       []string `toml:"scopes"`
	SessionFile  string   `toml:"session_file"`
}

// OAuthConfig builds the authorization code flow settings for the gallery's identity provider.
func (a AuthConfig) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		RedirectURL:  a.RedirectURL,
		Scopes:       a.Scopes,
		Endpoint:     oauth2.Endpoint{AuthURL: a.AuthURL, TokenURL: a.TokenURL},
	}
}

// Update stores a freshly issued token. The refresh token is kept when the provider omits a new one.
func (a *AuthConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: token has no access token", ErrMissingCredentials)
	}
	a.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		a.RefreshToken = token.RefreshToken
	}
	return nil
}

// AccessConfig lists protected containers already unlocked for this user.
type AccessConfig struct {
	Unlocked []string `toml:"unlocked"`
}

// DatabaseConfig contains journal database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ArchiveConfig controls where batch downloads are saved. A non-empty bucket selects Cloud Storage.
type ArchiveConfig struct {
	Dir    string `toml:"dir"`
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to path as TOML, replacing the file's contents.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process environment.
//
// A missing file is not an error. Variables already set in the environment are left untouched.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values with GALX_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Auth.AccessToken = v
	}
	if v := os.Getenv(EnvArchiveBucket); v != "" {
		c.Archive.Bucket = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the fields the engine cannot run without are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("%w: server.base_url is required", ErrInvalidConfig)
	}
	if c.Server.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: server.requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
