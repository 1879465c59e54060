package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName  string
		Env      string // DEV (local; default), TEST, PROD
		Build    string
		Debug    bool
		TestMode bool
		WorkDir  string

		AppURL           string // public base URL, used for payment callbacks
		DefaultFromEmail string
		SupportEmail     string // support requests are forwarded here when set

		RollbarToken   string
		SendgridApiKey string

		Server   ServerConfig
		Database DatabaseConfig
		Auth     AuthConfig
		AI       AIConfig
		Paystack PaystackConfig
	}

	ServerConfig struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
	}

	DatabaseConfig struct {
		URL          string
		MaxOpenConns int
	}

	AuthConfig struct {
		SupabaseURL    string
		AnonKey        string
		ServiceRoleKey string
		JWTSecret      string

		AdminPassword      string // plain text or bcrypt hash
		AdminSessionSecret string
		AdminSessionTTL    time.Duration
	}

	AIConfig struct {
		APIKey       string
		BaseURL      string
		DefaultModel string
	}

	PaystackConfig struct {
		SecretKey string
		ProAmount string // smallest currency unit, as Paystack expects
		BaseURL   string
	}
)

// NewConfig loads the optional `config/.env.<env>` file and reads the environment.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(strings.TrimSpace(os.Getenv("ENV")))
	if env == "" {
		env = "DEV"
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("app_name", "WATAs")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", env != "PROD")
	v.SetDefault("app_url", "")
	v.SetDefault("default_from_email", "WATAs <noreply@localhost>")
	v.SetDefault("support_notify_email", "")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")

	v.SetDefault("server_address", ":8000")
	v.SetDefault("server_debug_address", ":4000")
	v.SetDefault("server_shutdown_timeout", 5*time.Second)
	v.SetDefault("server_read_timeout", 10*time.Second)
	v.SetDefault("server_write_timeout", 2*time.Minute) // LLM round trips are slow

	v.SetDefault("database_url", "")
	v.SetDefault("database_max_open_conns", 10)

	v.SetDefault("supabase_url", "")
	v.SetDefault("supabase_anon_key", "")
	v.SetDefault("supabase_service_role_key", "")
	v.SetDefault("supabase_jwt_secret", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_session_secret", "")
	v.SetDefault("admin_session_ttl", 8*time.Hour)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_chat_model", "gpt-4o")

	v.SetDefault("paystack_secret_key", "")
	v.SetDefault("paystack_pro_amount", "")
	v.SetDefault("paystack_base_url", "https://api.paystack.co")
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("app_name"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		WorkDir:          wd,
		AppURL:           strings.TrimRight(v.GetString("app_url"), "/"),
		DefaultFromEmail: v.GetString("default_from_email"),
		SupportEmail:     v.GetString("support_notify_email"),
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		Server: ServerConfig{
			Address:         v.GetString("server_address"),
			DebugAddress:    v.GetString("server_debug_address"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
			ReadTimeout:     v.GetDuration("server_read_timeout"),
			WriteTimeout:    v.GetDuration("server_write_timeout"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database_url"),
			MaxOpenConns: v.GetInt("database_max_open_conns"),
		},
		Auth: AuthConfig{
			SupabaseURL:        strings.TrimRight(v.GetString("supabase_url"), "/"),
			AnonKey:            v.GetString("supabase_anon_key"),
			ServiceRoleKey:     v.GetString("supabase_service_role_key"),
			JWTSecret:          v.GetString("supabase_jwt_secret"),
			AdminPassword:      v.GetString("admin_password"),
			AdminSessionSecret: v.GetString("admin_session_secret"),
			AdminSessionTTL:    v.GetDuration("admin_session_ttl"),
		},
		AI: AIConfig{
			APIKey:       v.GetString("openai_api_key"),
			BaseURL:      v.GetString("openai_base_url"),
			DefaultModel: v.GetString("openai_chat_model"),
		},
		Paystack: PaystackConfig{
			SecretKey: v.GetString("paystack_secret_key"),
			ProAmount: v.GetString("paystack_pro_amount"),
			BaseURL:   strings.TrimRight(v.GetString("paystack_base_url"), "/"),
		},
	}
	return conf, nil
}

// SessionSecret is the HMAC key for admin sessions. It falls back to the admin password.
func (c AuthConfig) SessionSecret() string {
	if c.AdminSessionSecret != "" {
		return c.AdminSessionSecret
	}
	return c.AdminPassword
}

func (c *Config) FromEmail() mail.Address {
	if addr, err := mail.ParseAddress(c.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}
