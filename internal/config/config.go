// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// Mail providers.
const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
	MailProviderLog      = "log"
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Blob     BlobConfig
	Recovery RecoveryConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
	CertFile    string
	KeyFile     string
}

// UseTLS reports whether a certificate and key were configured.
func (s ServerConfig) UseTLS() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	Driver string // sqlite, mysql
	DSN    string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type MailConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Provider       string // smtp, sendgrid, log
	From           string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SendGridAPIKey string
}

type BlobConfig struct {
	Account   string
	Container string
	SASToken  string
	Endpoint  string // overrides https://<account>.blob.core.windows.net
	Prefix    string // virtual directory for uploaded images
}

// ServiceURL returns the blob service endpoint without credentials.
func (b BlobConfig) ServiceURL() string {
	if b.Endpoint != "" {
		return strings.TrimSuffix(b.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net", b.Account)
}

type RecoveryConfig struct {
	CodeTTL       time.Duration
	SweepSchedule string // cron schedule, empty disables the sweep
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
			CertFile:    cmd.String("tls-cert-file"),
			KeyFile:     cmd.String("tls-key-file"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			Driver: cmd.String("database-driver"),
			DSN:    cmd.String("database-dsn"),
		},
		Auth: AuthConfig{
			JWTSecret: cmd.String("jwt-secret"),
			TokenTTL:  cmd.Duration("token-ttl"),
		},
		Mail: MailConfig{
			Provider:       strings.ToLower(cmd.String("mail-provider")),
			From:           cmd.String("mail-from"),
			FromName:       cmd.String("mail-from-name"),
			SMTPHost:       cmd.String("smtp-host"),
			SMTPPort:       int(cmd.Int("smtp-port")),
			SMTPUsername:   cmd.String("smtp-username"),
			SMTPPassword:   cmd.String("smtp-password"),
			SendGridAPIKey: cmd.String("sendgrid-api-key"),
		},
		Blob: BlobConfig{
			Account:   cmd.String("blob-account"),
			Container: cmd.String("blob-container"),
			SASToken:  strings.TrimPrefix(cmd.String("blob-sas-token"), "?"),
			Endpoint:  cmd.String("blob-endpoint"),
			Prefix:    strings.Trim(cmd.String("blob-prefix"), "/"),
		},
		Recovery: RecoveryConfig{
			CodeTTL:       cmd.Duration("recovery-code-ttl"),
			SweepSchedule: cmd.String("recovery-sweep-schedule"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" && !IsLocalhost(c.Server.Host) {
		return fmt.Errorf("jwt-secret is required when not bound to localhost")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token-ttl must be positive")
	}
	if c.Recovery.CodeTTL <= 0 {
		return fmt.Errorf("recovery-code-ttl must be positive")
	}

	switch c.Mail.Provider {
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("smtp-host is required for the smtp mail provider")
		}
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid-api-key is required for the sendgrid mail provider")
		}
	case MailProviderLog:
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}

	if c.Blob.Account == "" && c.Blob.Endpoint == "" {
		return fmt.Errorf("blob-account or blob-endpoint is required")
	}
	if c.Blob.Container == "" {
		return fmt.Errorf("blob-container is required")
	}
	return nil
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if cfg.Server.UseTLS() {
		scheme = "https"
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   3000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   20,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("server.tls_cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("server.tls_key_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-driver",
			Value:   "sqlite",
			Usage:   "Database driver (sqlite, mysql)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DRIVER"), toml.TOML("database.driver", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "HMAC secret for bearer tokens (random per process on localhost if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("auth.jwt_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-ttl",
			Value:   24 * time.Hour,
			Usage:   "Bearer token lifetime",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_TTL"), toml.TOML("auth.token_ttl", configFile)),
		},
		// Mail flags
		&cli.StringFlag{
			Name:    "mail-provider",
			Value:   MailProviderSMTP,
			Usage:   "Mail provider (smtp, sendgrid, log)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_PROVIDER"), toml.TOML("mail.provider", configFile)),
		},
		&cli.StringFlag{
			Name:    "mail-from",
			Usage:   "Sender address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EMAIL_USER"), cli.EnvVar("MAIL_FROM"), toml.TOML("mail.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "mail-from-name",
			Value:   "AdotaFácil",
			Usage:   "Sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_FROM_NAME"), toml.TOML("mail.from_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Value:   "smtp.gmail.com",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("mail.smtp_host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("mail.smtp_port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username (defaults to mail-from)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("mail.smtp_username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password or app password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EMAIL_APP_PASSWORD"), cli.EnvVar("SMTP_PASSWORD"), toml.TOML("mail.smtp_password", configFile)),
		},
		&cli.StringFlag{
			Name:    "sendgrid-api-key",
			Usage:   "SendGrid API key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SENDGRID_API_KEY"), toml.TOML("mail.sendgrid_api_key", configFile)),
		},
		// Blob storage flags
		&cli.StringFlag{
			Name:    "blob-account",
			Usage:   "Azure storage account name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AZURE_STORAGE_ACCOUNT_NAME"), toml.TOML("blob.account", configFile)),
		},
		&cli.StringFlag{
			Name:    "blob-container",
			Usage:   "Azure storage container for images",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AZURE_STORAGE_CONTAINER_NAME"), toml.TOML("blob.container", configFile)),
		},
		&cli.StringFlag{
			Name:    "blob-sas-token",
			Usage:   "SAS token granting write access to the container",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AZURE_STORAGE_SAS_TOKEN"), toml.TOML("blob.sas_token", configFile)),
		},
		&cli.StringFlag{
			Name:    "blob-endpoint",
			Usage:   "Blob service endpoint override (e.g. an Azurite emulator)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BLOB_ENDPOINT"), toml.TOML("blob.endpoint", configFile)),
		},
		&cli.StringFlag{
			Name:    "blob-prefix",
			Value:   "animais",
			Usage:   "Virtual directory for uploaded images",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BLOB_PREFIX"), toml.TOML("blob.prefix", configFile)),
		},
		// Recovery flags
		&cli.DurationFlag{
			Name:    "recovery-code-ttl",
			Value:   10 * time.Minute,
			Usage:   "Validity of an emailed password recovery code",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RECOVERY_CODE_TTL"), toml.TOML("recovery.code_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "recovery-sweep-schedule",
			Value:   "@every 15m",
			Usage:   "Cron schedule for deleting expired recovery codes (empty disables)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RECOVERY_SWEEP_SCHEDULE"), toml.TOML("recovery.sweep_schedule", configFile)),
		},
	}
}
