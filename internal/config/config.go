// Package config loads runtime settings from the environment, with an
// optional .env file for local development. All variables use the FEEDBACK_
// prefix.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

type SMSConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	AlertTo    string
}

type Config struct {
	Addr         string
	DBDriver     string
	DBDSN        string
	JWTSecret    string
	AdminEmails  []string
	LogLevel     string
	LogFormat    string
	CouponCTAURL string
	OpenAI       OpenAIConfig
	Email        EmailConfig
	SMS          SMSConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_driver", "sqlite3")
	v.SetDefault("db_dsn", "feedback.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("coupon_cta_url", "https://tacology.com")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_temperature", 0.2)
	v.SetDefault("openai_max_tokens", 2000)
	v.SetDefault("openai_timeout", "60s")
	v.SetDefault("email_base_url", "https://api.resend.com")
	v.SetDefault("email_from", "Tacology <surveys@tacology.com>")
	v.SetDefault("sms_base_url", "https://api.twilio.com")
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FEEDBACK")
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Addr:         v.GetString("addr"),
		DBDriver:     v.GetString("db_driver"),
		DBDSN:        v.GetString("db_dsn"),
		JWTSecret:    v.GetString("jwt_secret"),
		AdminEmails:  splitList(v.GetString("admin_emails")),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
		CouponCTAURL: v.GetString("coupon_cta_url"),
		OpenAI: OpenAIConfig{
			BaseURL:     v.GetString("openai_base_url"),
			APIKey:      v.GetString("openai_api_key"),
			Model:       v.GetString("openai_model"),
			Temperature: v.GetFloat64("openai_temperature"),
			MaxTokens:   v.GetInt("openai_max_tokens"),
			Timeout:     v.GetDuration("openai_timeout"),
		},
		Email: EmailConfig{
			BaseURL: v.GetString("email_base_url"),
			APIKey:  v.GetString("email_api_key"),
			From:    v.GetString("email_from"),
		},
		SMS: SMSConfig{
			BaseURL:    v.GetString("sms_base_url"),
			AccountSID: v.GetString("sms_account_sid"),
			AuthToken:  v.GetString("sms_auth_token"),
			From:       v.GetString("sms_from"),
			AlertTo:    v.GetString("sms_alert_to"),
		},
	}
	return cfg, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
