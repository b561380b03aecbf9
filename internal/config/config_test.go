// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		server   ServerConfig
		expected string
	}{
		{"http default port", ServerConfig{Host: "localhost", Port: 80}, "http://localhost"},
		{"http custom port", ServerConfig{Host: "localhost", Port: 3000}, "http://localhost:3000"},
		{"https default port", ServerConfig{Host: "api.example.com", Port: 443, CertFile: "c.pem", KeyFile: "k.pem"}, "https://api.example.com"},
		{"https custom port", ServerConfig{Host: "api.example.com", Port: 8443, CertFile: "c.pem", KeyFile: "k.pem"}, "https://api.example.com:8443"},
		{"cert without key stays http", ServerConfig{Host: "api.example.com", Port: 8080, CertFile: "c.pem"}, "http://api.example.com:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(&Config{Server: tt.server}))
		})
	}
}

func TestBlobConfig_ServiceURL(t *testing.T) {
	assert.Equal(t, "https://adota.blob.core.windows.net", BlobConfig{Account: "adota"}.ServiceURL())
	assert.Equal(t, "http://127.0.0.1:10000/devstoreaccount1",
		BlobConfig{Account: "adota", Endpoint: "http://127.0.0.1:10000/devstoreaccount1/"}.ServiceURL())
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "api.example.com"},
		Auth:     AuthConfig{JWTSecret: "s3cret", TokenTTL: time.Hour},
		Mail:     MailConfig{Provider: MailProviderSMTP, SMTPHost: "smtp.example.com"},
		Blob:     BlobConfig{Account: "adota", Container: "imagens"},
		Recovery: RecoveryConfig{CodeTTL: 10 * time.Minute},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret on remote host", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt-secret"},
		{"missing secret on localhost", func(c *Config) { c.Auth.JWTSecret = ""; c.Server.Host = "localhost" }, ""},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token-ttl"},
		{"zero code ttl", func(c *Config) { c.Recovery.CodeTTL = 0 }, "recovery-code-ttl"},
		{"smtp without host", func(c *Config) { c.Mail.SMTPHost = "" }, "smtp-host"},
		{"sendgrid without key", func(c *Config) { c.Mail.Provider = MailProviderSendGrid }, "sendgrid-api-key"},
		{"log provider", func(c *Config) { c.Mail.Provider = MailProviderLog }, ""},
		{"unknown provider", func(c *Config) { c.Mail.Provider = "pigeon" }, "unknown mail provider"},
		{"no blob account", func(c *Config) { c.Blob.Account = "" }, "blob-account"},
		{"endpoint instead of account", func(c *Config) { c.Blob.Account = ""; c.Blob.Endpoint = "http://azurite" }, ""},
		{"no container", func(c *Config) { c.Blob.Container = "" }, "blob-container"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range Flags() {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range []string{
		"host", "port", "base-url", "log-level", "database-driver", "database-dsn",
		"jwt-secret", "token-ttl", "mail-provider", "smtp-host", "sendgrid-api-key",
		"blob-account", "blob-container", "blob-sas-token", "recovery-code-ttl",
		"recovery-sweep-schedule",
	} {
		assert.True(t, flagNames[name], "should have %s flag", name)
	}
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 3000, cfg.Server.Port)
			assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
			assert.Equal(t, "sqlite", cfg.Database.Driver)
			assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
			assert.Equal(t, MailProviderSMTP, cfg.Mail.Provider)
			assert.Equal(t, 587, cfg.Mail.SMTPPort)
			assert.Equal(t, "animais", cfg.Blob.Prefix)
			assert.Equal(t, 10*time.Minute, cfg.Recovery.CodeTTL)
			assert.Equal(t, "@every 15m", cfg.Recovery.SweepSchedule)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://api.example.com", cfg.Server.BaseURL)
			assert.Equal(t, "mysql", cfg.Database.Driver)
			assert.Equal(t, "sendgrid", cfg.Mail.Provider)
			assert.Equal(t, "sv=2024&sig=abc", cfg.Blob.SASToken)
			assert.Equal(t, "pets/img", cfg.Blob.Prefix)
			assert.Equal(t, 5*time.Minute, cfg.Recovery.CodeTTL)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://api.example.com",
		"--database-driver", "mysql",
		"--mail-provider", "SendGrid",
		"--blob-sas-token", "?sv=2024&sig=abc",
		"--blob-prefix", "/pets/img/",
		"--recovery-code-ttl", "5m",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
