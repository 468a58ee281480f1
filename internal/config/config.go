package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config/config.yaml"

type ServerConfig struct {
	Port          int    `yaml:"port" validate:"min=1,max=65535"`
	BaseURL       string `yaml:"base_url" validate:"required,url"`
	SecureCookies bool   `yaml:"secure_cookies"`
	TemplatesDir  string `yaml:"templates_dir"`
	PDFFontPath   string `yaml:"pdf_font_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url" validate:"required"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	SecretKey       string        `yaml:"secret_key" validate:"required,min=32"`
	ConfirmTokenTTL time.Duration `yaml:"confirm_token_ttl"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host" validate:"required"`
	SMTPPort     int    `yaml:"smtp_port" validate:"required"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email" validate:"required,email"`
}

type TwilioConfig struct {
	AccountSID string        `yaml:"account_sid"`
	AuthToken  string        `yaml:"auth_token"`
	BaseURL    string        `yaml:"base_url"`
	LookupURL  string        `yaml:"lookup_url"`
	Region     string        `yaml:"default_region"`
	Timeout    time.Duration `yaml:"timeout"`
	DryRun     bool          `yaml:"dry_run"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

type HistoryConfig struct {
	PageSize int `yaml:"page_size" validate:"min=1,max=100"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
	History  HistoryConfig  `yaml:"history"`
}

// LoadConfig reads the file named by CONFIG_PATH and panics on failure.
// It is meant for process startup only.
func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Load decodes the YAML file at path, overlays secrets from the environment
// (and an optional .env file), fills defaults and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Auth.SecretKey, "SECRET_KEY")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Email.SMTPUser, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&c.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v, ok := os.LookupEnv("PORT"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Auth.ConfirmTokenTTL <= 0 {
		c.Auth.ConfirmTokenTTL = 24 * time.Hour
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = 7 * 24 * time.Hour
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = "noreply@example.com"
	}
	if c.Twilio.Region == "" {
		c.Twilio.Region = "US"
	}
	if c.Twilio.Timeout <= 0 {
		c.Twilio.Timeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.History.PageSize == 0 {
		c.History.PageSize = 10
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
