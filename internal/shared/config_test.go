package shared

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./galx.db" {
			t.Errorf("expected database path ./galx.db, got %s", config.Database.Path)
		}
		if config.Server.BaseURL != "http://localhost:8000" {
			t.Errorf("expected base URL http://localhost:8000, got %s", config.Server.BaseURL)
		}
		if config.Server.RequestsPerSecond != 10 {
			t.Errorf("expected 10 requests per second, got %v", config.Server.RequestsPerSecond)
		}
		if config.Archive.Dir != "./downloads" {
			t.Errorf("expected archive dir ./downloads, got %s", config.Archive.Dir)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "https://photos.example.com"
timeout_seconds = 5
requests_per_second = 2.5

[auth]
access_token = "token123"

[access]
unlocked = ["f1", "a9"]

[archive]
bucket = "my-bucket"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "https://photos.example.com" {
			t.Errorf("unexpected base URL %s", config.Server.BaseURL)
		}
		if config.Server.Timeout().Seconds() != 5 {
			t.Errorf("expected 5s timeout, got %v", config.Server.Timeout())
		}
		if config.Auth.AccessToken != "token123" {
			t.Errorf("unexpected access token %s", config.Auth.AccessToken)
		}
		if len(config.Access.Unlocked) != 2 {
			t.Errorf("expected 2 unlocked containers, got %v", config.Access.Unlocked)
		}
		if config.Archive.Bucket != "my-bucket" {
			t.Errorf("unexpected bucket %s", config.Archive.Bucket)
		}
	})

	t.Run("LoadConfig rejects missing base URL", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server]\nbase_url = \"\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://env.example.com")
		t.Setenv(EnvAccessToken, "env-token")

		config := DefaultConfig()
		if config.Server.BaseURL != "https://env.example.com" {
			t.Errorf("expected env base URL, got %s", config.Server.BaseURL)
		}
		if config.Auth.AccessToken != "env-token" {
			t.Errorf("expected env token, got %s", config.Auth.AccessToken)
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("GALX_ARCHIVE_BUCKET=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvArchiveBucket, "")
		os.Unsetenv(EnvArchiveBucket)

		if err := LoadEnvFile(envPath); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv(EnvArchiveBucket); got != "from-dotenv" {
			t.Errorf("expected bucket from .env, got %q", got)
		}
		if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("missing env file should not fail: %v", err)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Auth.AccessToken = "saved-token"
		config.Access.Unlocked = []string{"a1"}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Auth.AccessToken != "saved-token" {
			t.Errorf("expected saved token, got %s", loaded.Auth.AccessToken)
		}
		if len(loaded.Access.Unlocked) != 1 || loaded.Access.Unlocked[0] != "a1" {
			t.Errorf("expected unlocked [a1], got %v", loaded.Access.Unlocked)
		}
	})

	t.Run("AuthConfig", func(t *testing.T) {
		t.Run("Update keeps refresh token when omitted", func(t *testing.T) {
			auth := AuthConfig{RefreshToken: "old-refresh"}
			if err := auth.Update(&oauth2.Token{AccessToken: "new-access"}); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if auth.AccessToken != "new-access" || auth.RefreshToken != "old-refresh" {
				t.Errorf("unexpected tokens %q %q", auth.AccessToken, auth.RefreshToken)
			}
		})

		t.Run("Update rejects empty token", func(t *testing.T) {
			auth := AuthConfig{}
			if err := auth.Update(&oauth2.Token{}); err == nil {
				t.Error("expected error for empty access token")
			}
		})

		t.Run("OAuthConfig", func(t *testing.T) {
			auth := AuthConfig{
				ClientID:    "id",
				AuthURL:     "https://idp.example.com/authorize",
				TokenURL:    "https://idp.example.com/token",
				RedirectURL: "http://localhost:3000/callback",
				Scopes:      []string{"albums"},
			}
			config := auth.OAuthConfig()
			if config.Endpoint.AuthURL != auth.AuthURL || config.Endpoint.TokenURL != auth.TokenURL {
				t.Errorf("unexpected endpoint %+v", config.Endpoint)
			}
			if config.RedirectURL != auth.RedirectURL {
				t.Errorf("unexpected redirect %s", config.RedirectURL)
			}
		})
	})
}
