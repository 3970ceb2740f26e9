package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Mailer    MailerConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Bootstrap BootstrapConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// MailerConfig contains credentials for the outbound mail HTTP API
// used by the password-reset OTP flow. Leave unset to disable mail.
type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// Enabled reports whether the mail flow is configured.
func (c MailerConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.From != ""
}

// SheetsConfig contains configuration for the Google Sheets snapshot
// export. Leave unset to disable the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the snapshot export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule      string
	LowStockThreshold int
}

// BootstrapConfig seeds the first admin account when the collection is
// empty, so a fresh deployment is reachable.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
	AdminPhone    string
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	threshold, err := strconv.Atoi(getenvWithDefault("LOW_STOCK_THRESHOLD", "5"))
	if err != nil {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockdesk"),
		},
		Mailer: MailerConfig{
			BaseURL: os.Getenv("MAILER_BASE_URL"),
			APIKey:  os.Getenv("MAILER_API_KEY"),
			From:    os.Getenv("MAILER_FROM"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SNAPSHOT_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:      getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 20 * * *"),
			LowStockThreshold: threshold,
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getenvWithDefault("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			AdminPassword: getenvWithDefault("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),
			AdminPhone:    getenvWithDefault("BOOTSTRAP_ADMIN_PHONE", "+911234567890"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
// Mailer and sheets settings are optional as a pair: either fully set
// or fully absent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	partialMailer := (c.Mailer.BaseURL != "" || c.Mailer.APIKey != "" || c.Mailer.From != "") && !c.Mailer.Enabled()
	if partialMailer {
		return errors.New("MAILER_BASE_URL, MAILER_API_KEY and MAILER_FROM must be set together")
	}

	partialSheets := (c.Sheets.CredentialsPath != "" || c.Sheets.SpreadsheetID != "") && !c.Sheets.Enabled()
	if partialSheets {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_SNAPSHOT_ID must be set together")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	switch {
	case c.Bootstrap.AdminUsername == "":
		return errors.New("BOOTSTRAP_ADMIN_USERNAME must not be empty")
	case c.Bootstrap.AdminPassword == "":
		return errors.New("BOOTSTRAP_ADMIN_PASSWORD must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
